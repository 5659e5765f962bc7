package bot

import (
	"context"
	"fmt"
	"time"

	"teambot/internal/history"
	"teambot/internal/knowledge"
	"teambot/internal/llm"
	"teambot/internal/logging"
	"teambot/internal/metrics"
	"teambot/internal/resolver"
	"teambot/internal/review"
	"teambot/internal/team"
)

const (
	questionMaxTokens = 4096

	// previewUpdateInterval throttles live preview edits during streaming.
	previewUpdateInterval = 1500 * time.Millisecond
)

// Committer records a completed registration in source control. Failures are
// the implementation's problem; registration already succeeded by the time
// this runs.
type Committer interface {
	CommitRegistration(ctx context.Context, teamName string, kind knowledge.Kind, content, userID string)
}

// Deps collects everything a Bot needs. Committer and Metrics are optional.
type Deps struct {
	Teams     *team.Directory
	History   *history.Store
	Docs      *knowledge.Repository
	Resolver  *resolver.Resolver
	LLM       llm.Client
	Reviewer  *review.Reviewer
	Pending   *review.PendingStore
	Messenger Messenger
	Committer Committer
	Metrics   *metrics.Metrics
	Logger    logging.Logger

	// UpdateInterval overrides the preview throttle; zero keeps the default.
	UpdateInterval time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Bot routes typed inbound events to the command, question, and registration
// flows.
type Bot struct {
	teams     *team.Directory
	history   *history.Store
	docs      *knowledge.Repository
	resolver  *resolver.Resolver
	llm       llm.Client
	reviewer  *review.Reviewer
	pending   *review.PendingStore
	messenger Messenger
	committer Committer
	metrics   *metrics.Metrics
	logger    logging.Logger

	now            func() time.Time
	updateInterval time.Duration
}

func New(d Deps) (*Bot, error) {
	switch {
	case d.Teams == nil:
		return nil, fmt.Errorf("bot requires a team directory")
	case d.History == nil:
		return nil, fmt.Errorf("bot requires a history store")
	case d.Docs == nil:
		return nil, fmt.Errorf("bot requires a knowledge repository")
	case d.Resolver == nil:
		return nil, fmt.Errorf("bot requires a context resolver")
	case d.LLM == nil:
		return nil, fmt.Errorf("bot requires an llm client")
	case d.Reviewer == nil:
		return nil, fmt.Errorf("bot requires a reviewer")
	case d.Pending == nil:
		return nil, fmt.Errorf("bot requires a pending store")
	case d.Messenger == nil:
		return nil, fmt.Errorf("bot requires a messenger")
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	interval := d.UpdateInterval
	if interval <= 0 {
		interval = previewUpdateInterval
	}
	return &Bot{
		teams:          d.Teams,
		history:        d.History,
		docs:           d.Docs,
		resolver:       d.Resolver,
		llm:            d.LLM,
		reviewer:       d.Reviewer,
		pending:        d.Pending,
		messenger:      d.Messenger,
		committer:      d.Committer,
		metrics:        d.Metrics,
		logger:         logging.OrNop(d.Logger),
		now:            now,
		updateInterval: interval,
	}, nil
}

// reportError converts a handler failure into the generic user-visible
// message. Handlers never surface raw failures to the platform transport.
func (b *Bot) reportError(ctx context.Context, channelID, threadTS string, err error) {
	b.metrics.ErrorReported()
	b.logger.Error("bot: handler failed: %v", err)
	msg := fmt.Sprintf("❌ 오류가 발생했습니다: %v", err)
	if _, postErr := b.messenger.PostMessage(ctx, channelID, threadTS, msg); postErr != nil {
		b.logger.Error("bot: failed to report error to user: %v", postErr)
	}
}

func (b *Bot) saveTurn(channelID, threadTS, teamKey string, role history.Role, content string) {
	if err := b.history.SaveTurn(channelID, threadTS, teamKey, role, content); err != nil {
		b.logger.Warn("bot: save turn failed: %v", err)
	}
}

func (b *Bot) historyMessages(channelID, threadTS string) []llm.Message {
	stored := b.history.History(channelID, threadTS)
	messages := make([]llm.Message, 0, len(stored)+1)
	for _, m := range stored {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	return messages
}
