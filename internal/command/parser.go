// Package command parses raw mention text into an intent, target team, and
// body. Parsing is a total function: any input yields a valid ParsedCommand.
package command

import (
	"regexp"
	"strings"
)

// Intent is the kind of request carried by a mention.
type Intent string

const (
	// IntentQuestion asks the team (or the root context) a free-form question.
	IntentQuestion Intent = "question"
	// IntentLearning submits a learning item for review and registration.
	IntentLearning Intent = "learning"
	// IntentStandard submits a standard item for review and registration.
	IntentStandard Intent = "standard"
	// IntentLearningList lists registered learning items.
	IntentLearningList Intent = "learning-list"
	// IntentStandardList lists registered standard items.
	IntentStandardList Intent = "standard-list"
)

// ParsedCommand is the result of parsing one mention.
type ParsedCommand struct {
	// TeamKey is the resolved canonical team key; empty means the
	// default/root context (subject to the context resolver's fallbacks).
	TeamKey string
	Intent  Intent
	Body    string
}

// KeyResolver resolves a raw token to a canonical team key, returning ""
// when the token names no team. Exact match only.
type KeyResolver interface {
	ResolveKey(input string) string
}

// mentionTagPattern strips Slack mention tags of the form <@U12345>.
var mentionTagPattern = regexp.MustCompile(`<@[A-Z0-9]+>`)

const (
	suffixLearning     = "-학습"
	suffixStandard     = "-기준"
	suffixLearningList = "-학습목록"
	suffixStandardList = "-기준목록"
)

// Parse splits mention text into team, intent, and body.
//
// Patterns, checked against the first whitespace-delimited token:
//
//	"마케팅 광고 기획해줘"      → {마케팅, question, "광고 기획해줘"}
//	"mk 광고 기획해줘"          → {마케팅, question, "광고 기획해줘"}
//	"마케팅-학습 CTR 높은 방법" → {마케팅, learning, "CTR 높은 방법"}
//	"마케팅-기준 식약처 준수"   → {마케팅, standard, "식약처 준수"}
//	"마케팅-학습목록"           → {마케팅, learning-list, ""}
//	"매출 분석해줘"             → {"", question, "매출 분석해줘"}
func Parse(text string, teams KeyResolver) ParsedCommand {
	cleaned := strings.TrimSpace(mentionTagPattern.ReplaceAllString(text, ""))
	if cleaned == "" {
		return ParsedCommand{Intent: IntentQuestion}
	}

	firstToken := cleaned
	rest := ""
	if idx := strings.IndexAny(cleaned, " \t\n"); idx != -1 {
		firstToken = cleaned[:idx]
		rest = strings.TrimSpace(cleaned[idx+1:])
	}

	// "<team>-학습목록" / "<team>-기준목록"
	if name, ok := strings.CutSuffix(firstToken, suffixLearningList); ok {
		if key := teams.ResolveKey(name); key != "" {
			return ParsedCommand{TeamKey: key, Intent: IntentLearningList}
		}
	}
	if name, ok := strings.CutSuffix(firstToken, suffixStandardList); ok {
		if key := teams.ResolveKey(name); key != "" {
			return ParsedCommand{TeamKey: key, Intent: IntentStandardList}
		}
	}

	// "<team>-학습" / "<team>-기준"
	if name, ok := strings.CutSuffix(firstToken, suffixLearning); ok {
		if key := teams.ResolveKey(name); key != "" {
			return ParsedCommand{TeamKey: key, Intent: IntentLearning, Body: rest}
		}
	}
	if name, ok := strings.CutSuffix(firstToken, suffixStandard); ok {
		if key := teams.ResolveKey(name); key != "" {
			return ParsedCommand{TeamKey: key, Intent: IntentStandard, Body: rest}
		}
	}

	// Bare team token.
	if key := teams.ResolveKey(firstToken); key != "" {
		return ParsedCommand{TeamKey: key, Intent: IntentQuestion, Body: rest}
	}

	// No team token: the whole cleaned text is a question for the root context.
	return ParsedCommand{Intent: IntentQuestion, Body: cleaned}
}

// CleanMentions removes mention tags and trims, without interpreting tokens.
func CleanMentions(text string) string {
	return strings.TrimSpace(mentionTagPattern.ReplaceAllString(text, ""))
}
