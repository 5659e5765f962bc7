package command

import (
	"testing"

	"teambot/internal/team"
)

func parse(t *testing.T, text string) ParsedCommand {
	t.Helper()
	return Parse(text, team.Default())
}

func TestParseQuestionWithTeam(t *testing.T) {
	got := parse(t, "<@U0123ABCD> 마케팅 광고 기획해줘")
	want := ParsedCommand{TeamKey: "마케팅", Intent: IntentQuestion, Body: "광고 기획해줘"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseQuestionWithAlias(t *testing.T) {
	got := parse(t, "mk 광고 기획해줘")
	if got.TeamKey != "마케팅" || got.Intent != IntentQuestion || got.Body != "광고 기획해줘" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseLearning(t *testing.T) {
	got := parse(t, "마케팅-학습 CTR 높은 방법")
	want := ParsedCommand{TeamKey: "마케팅", Intent: IntentLearning, Body: "CTR 높은 방법"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseStandard(t *testing.T) {
	got := parse(t, "마케팅-기준 식약처 준수")
	want := ParsedCommand{TeamKey: "마케팅", Intent: IntentStandard, Body: "식약처 준수"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseLearningList(t *testing.T) {
	got := parse(t, "마케팅-학습목록")
	want := ParsedCommand{TeamKey: "마케팅", Intent: IntentLearningList}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseStandardListIgnoresTrailingText(t *testing.T) {
	got := parse(t, "마케팅-기준목록 전부 보여줘")
	if got.Intent != IntentStandardList || got.Body != "" {
		t.Fatalf("list intents carry no body, got %+v", got)
	}
}

func TestParseUnknownTeamSuffixFallsBack(t *testing.T) {
	got := parse(t, "없는팀-학습 무언가")
	want := ParsedCommand{Intent: IntentQuestion, Body: "없는팀-학습 무언가"}
	if got != want {
		t.Fatalf("unresolved team token must become a plain question, got %+v", got)
	}
}

func TestParseNoTeam(t *testing.T) {
	got := parse(t, "매출 분석해줘")
	want := ParsedCommand{Intent: IntentQuestion, Body: "매출 분석해줘"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseEmpty(t *testing.T) {
	got := parse(t, "<@U0123ABCD>")
	want := ParsedCommand{Intent: IntentQuestion}
	if got != want {
		t.Fatalf("empty mention should yield default question, got %+v", got)
	}
}

func TestParseLearningEmptyBody(t *testing.T) {
	got := parse(t, "마케팅-학습")
	want := ParsedCommand{TeamKey: "마케팅", Intent: IntentLearning}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseBareTeamEmptyBody(t *testing.T) {
	got := parse(t, "마케팅")
	want := ParsedCommand{TeamKey: "마케팅", Intent: IntentQuestion}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
