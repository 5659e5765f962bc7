package bot

import (
	"context"
	"strings"
	"time"

	"teambot/internal/history"
	"teambot/internal/llm"
	"teambot/internal/slackmsg"
)

// HandleThreadMessage answers plain messages in threads the bot already
// participates in, streaming a live preview into the loading message.
func (b *Bot) HandleThreadMessage(ctx context.Context, ev ThreadMessageEvent) {
	if ev.FromBot || ev.MentionsBot || ev.ThreadTS == "" {
		return
	}
	// Only threads with an existing record belong to the bot.
	prevTeam := b.history.ThreadTeam(ev.ChannelID, ev.ThreadTS)
	if prevTeam == "" && len(b.history.History(ev.ChannelID, ev.ThreadTS)) == 0 {
		return
	}
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return
	}

	b.metrics.EventReceived("thread_message")
	if err := b.handleThreadMessage(ctx, ev, prevTeam, text); err != nil {
		b.reportError(ctx, ev.ChannelID, ev.ThreadTS, err)
	}
}

func (b *Bot) handleThreadMessage(ctx context.Context, ev ThreadMessageEvent, teamKey, text string) error {
	if teamKey == "" {
		teamKey = b.resolver.Resolve(ctx, ev.ChannelID, "")
	}
	teamLabel := b.teams.Label(teamKey)

	doc, err := b.docs.Read(teamKey)
	if err != nil {
		return err
	}
	messages := b.historyMessages(ev.ChannelID, ev.ThreadTS)
	b.saveTurn(ev.ChannelID, ev.ThreadTS, teamKey, history.RoleUser, text)

	loadingTS, err := b.messenger.PostMessage(ctx, ev.ChannelID, ev.ThreadTS,
		teamLabel+" 응답 생성 중... :hourglass_flowing_sand:")
	if err != nil {
		return err
	}

	messages = append(messages, llm.Message{Role: "user", Content: text})
	var lastUpdate time.Time
	response, err := b.llm.CompleteStream(ctx, llm.Request{
		System:    doc,
		Messages:  messages,
		MaxTokens: questionMaxTokens,
	}, func(accumulated string) {
		now := b.now()
		if loadingTS == "" || now.Sub(lastUpdate) < b.updateInterval {
			return
		}
		lastUpdate = now
		preview := slackmsg.Truncate(accumulated, slackmsg.MaxMessageLength)
		if err := b.messenger.UpdateMessage(ctx, ev.ChannelID, loadingTS, teamLabel+"\n\n"+preview); err != nil {
			b.logger.Debug("bot: preview update failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	b.saveTurn(ev.ChannelID, ev.ThreadTS, teamKey, history.RoleAssistant, response)

	chunks := slackmsg.Split(teamLabel+"\n\n"+response, slackmsg.MaxMessageLength)
	if len(chunks) == 0 {
		return nil
	}
	if loadingTS != "" {
		if err := b.messenger.UpdateMessage(ctx, ev.ChannelID, loadingTS, chunks[0]); err != nil {
			return err
		}
	} else {
		if _, err := b.messenger.PostMessage(ctx, ev.ChannelID, ev.ThreadTS, chunks[0]); err != nil {
			return err
		}
	}
	for _, chunk := range chunks[1:] {
		if _, err := b.messenger.PostMessage(ctx, ev.ChannelID, ev.ThreadTS, chunk); err != nil {
			return err
		}
	}
	return nil
}
