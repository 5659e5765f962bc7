// Package gitsync records completed registrations in the documents' git
// repository. Commits are best-effort: the registration already succeeded,
// so every failure here is logged and swallowed.
package gitsync

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"teambot/internal/knowledge"
	"teambot/internal/logging"
)

// Committer runs git add/commit/push in the documents repository.
type Committer struct {
	repoDir string
	push    bool
	logger  logging.Logger
}

// New builds a committer rooted at repoDir. When push is false the commit
// stays local.
func New(repoDir string, push bool, logger logging.Logger) *Committer {
	return &Committer{
		repoDir: repoDir,
		push:    push,
		logger:  logging.OrNop(logger),
	}
}

// CommitRegistration stages the markdown documents and commits them with a
// message naming the team, kind, content, and submitting user.
func (c *Committer) CommitRegistration(ctx context.Context, teamName string, kind knowledge.Kind, content, userID string) {
	if _, err := c.run(ctx, "add", "*.md"); err != nil {
		c.logger.Warn("gitsync: add failed (registration is already saved): %v", err)
		return
	}
	if _, err := c.run(ctx, "commit", "-m", commitMessage(teamName, kind, content, userID)); err != nil {
		c.logger.Warn("gitsync: commit failed (registration is already saved): %v", err)
		return
	}
	if c.push {
		if _, err := c.run(ctx, "push"); err != nil {
			c.logger.Warn("gitsync: push failed (commit is local): %v", err)
			return
		}
	}
	c.logger.Info("gitsync: committed %s %s registration", teamName, kind.KoreanName())
}

func commitMessage(teamName string, kind knowledge.Kind, content, userID string) string {
	return fmt.Sprintf("[%s] %s 등록: %s\n\nSlack user: %s", teamName, kind.KoreanName(), content, userID)
}

func (c *Committer) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.repoDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %v: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}
