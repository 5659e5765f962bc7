// Package slackbridge adapts the Slack platform to the bot: it runs the
// Socket Mode event loop, translates inbound payloads into typed bot events,
// and renders outbound messages and Block Kit interactions.
package slackbridge

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Messenger implements bot.Messenger and resolver.NameLookup over the Slack
// Web API.
type Messenger struct {
	api *slack.Client
}

func NewMessenger(api *slack.Client) *Messenger {
	return &Messenger{api: api}
}

func (m *Messenger) PostMessage(ctx context.Context, channelID, threadTS, text string) (string, error) {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}
	_, ts, err := m.api.PostMessageContext(ctx, channelID, opts...)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}
	return ts, nil
}

func (m *Messenger) UpdateMessage(ctx context.Context, channelID, ts, text string) error {
	_, _, _, err := m.api.UpdateMessageContext(ctx, channelID, ts, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	return nil
}

func (m *Messenger) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := m.api.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post ephemeral: %w", err)
	}
	return nil
}

// ChannelName fetches a channel's display name; the resolver caches results.
func (m *Messenger) ChannelName(ctx context.Context, channelID string) (string, error) {
	info, err := m.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		return "", fmt.Errorf("conversation info: %w", err)
	}
	return info.Name, nil
}
