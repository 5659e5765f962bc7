package gitsync

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"teambot/internal/knowledge"
)

func TestCommitMessage(t *testing.T) {
	got := commitMessage("마케팅팀", knowledge.KindLearning, "CTR 높은 방법", "U123")
	want := "[마케팅팀] 학습 등록: CTR 높은 방법\n\nSlack user: U123"
	if got != want {
		t.Fatalf("got %q", got)
	}

	got = commitMessage("개발팀", knowledge.KindStandard, "존댓말 사용", "U9")
	if !strings.HasPrefix(got, "[개발팀] 기준 등록: 존댓말 사용") {
		t.Fatalf("got %q", got)
	}
}

func TestCommitRegistrationLocal(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}
	git("init")
	git("config", "user.email", "bot@test.local")
	git("config", "user.name", "teambot test")

	if err := os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte("# 팀\n\n- 항목\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(dir, false, nil)
	c.CommitRegistration(context.Background(), "마케팅팀", knowledge.KindLearning, "항목", "U1")

	cmd := exec.Command("git", "log", "-1", "--pretty=%B")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git log: %v", err)
	}
	if !strings.Contains(string(out), "[마케팅팀] 학습 등록: 항목") {
		t.Fatalf("unexpected commit message: %q", out)
	}
}

func TestCommitRegistrationFailureIsSwallowed(t *testing.T) {
	// Not a git repository: every step fails, nothing panics or errors out.
	c := New(t.TempDir(), true, nil)
	c.CommitRegistration(context.Background(), "팀", knowledge.KindStandard, "내용", "U1")
}
