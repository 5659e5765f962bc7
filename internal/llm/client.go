// Package llm talks to the generative-text backend. The concrete client
// targets the Anthropic Messages API over plain HTTP with SSE streaming; a
// mock implementation backs tests.
package llm

import "context"

// Message is one conversation turn sent to the backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries everything needed for one generation call.
type Request struct {
	// System is the system prompt (a team's knowledge document).
	System string
	// SystemPrefix, when set, is prepended to System.
	SystemPrefix string
	// Messages is the ordered conversation, ending with the user turn.
	Messages []Message
	// MaxTokens bounds the generated output.
	MaxTokens int
}

// StreamFunc receives the accumulated text after every increment. Consumers
// throttle their own visible updates; the client calls this on every delta.
type StreamFunc func(accumulated string)

// Client generates text. CompleteStream reports incremental progress through
// onDelta before returning the final text; onDelta may be nil.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	CompleteStream(ctx context.Context, req Request, onDelta StreamFunc) (string, error)
	Model() string
}
