// Package slackmsg bounds outbound message text: a hard-cut truncation for
// live streaming previews and a newline/space-biased splitter for final
// delivery. Lengths are counted in runes since most traffic is Korean.
package slackmsg

import "strings"

// MaxMessageLength is the hard ceiling for a single outbound message.
// Slack rejects message text around 4000 characters; 3900 leaves headroom
// for the team label prefix.
const MaxMessageLength = 3900

// Truncate hard-cuts text to limit runes, appending an ellipsis marker when
// anything was removed. No attempt is made to respect word or line
// boundaries; this is only for transient streaming previews.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// Split breaks text into chunks of at most limit runes. When a chunk must be
// cut, the cut lands on the last newline before the limit, or the last space,
// provided the break is at least half the limit in; otherwise the cut is
// hard. Leading whitespace of each remainder is trimmed. Non-empty input
// never produces an empty chunk, and every chunk is within the limit.
func Split(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 {
		return []string{text}
	}

	var chunks []string
	remainder := []rune(text)
	for len(remainder) > 0 {
		if len(remainder) <= limit {
			chunks = append(chunks, string(remainder))
			break
		}

		window := remainder[:limit]
		cut := lastIndexRune(window, '\n')
		if cut < limit/2 {
			cut = lastIndexRune(window, ' ')
		}
		if cut < limit/2 {
			cut = limit
		}

		chunks = append(chunks, string(remainder[:cut]))
		remainder = trimLeadingSpace(remainder[cut:])
	}
	return chunks
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

func trimLeadingSpace(runes []rune) []rune {
	i := 0
	for i < len(runes) && strings.ContainsRune(" \t\n\r", runes[i]) {
		i++
	}
	return runes[i:]
}
