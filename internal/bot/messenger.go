package bot

import "context"

// ReviewPrompt is the interactive review result: critique text plus the
// numbered choice buttons. The adapter renders it in the platform's rich
// message format; the improved-registration button appears only when an
// improvement was extracted.
type ReviewPrompt struct {
	TeamLabel   string
	KindLabel   string
	ReviewText  string
	ActionID    string
	HasImproved bool
}

// EditModal is the direct-edit dialog opened from a review message.
type EditModal struct {
	ActionID     string
	KindLabel    string
	InitialValue string
}

// Messenger sends messages back through the chat platform. PostMessage and
// PostReviewPrompt return the posted message's timestamp so the caller can
// update it later.
type Messenger interface {
	PostMessage(ctx context.Context, channelID, threadTS, text string) (string, error)
	UpdateMessage(ctx context.Context, channelID, ts, text string) error
	PostEphemeral(ctx context.Context, channelID, userID, text string) error
	PostReviewPrompt(ctx context.Context, channelID, threadTS string, prompt ReviewPrompt) (string, error)
	OpenEditModal(ctx context.Context, triggerID string, modal EditModal) error
}
