package slackbridge

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"teambot/internal/bot"
	"teambot/internal/logging"
)

// dedupSize bounds the recently-seen event cache. Socket Mode redelivers
// events when an ack is slow; the cache keeps redeliveries from producing
// duplicate replies.
const dedupSize = 1024

// Handler receives translated inbound events. Implemented by bot.Bot.
type Handler interface {
	HandleMention(ctx context.Context, ev bot.MentionEvent)
	HandleThreadMessage(ctx context.Context, ev bot.ThreadMessageEvent)
	HandleAction(ctx context.Context, ev bot.ActionEvent)
	HandleModalSubmit(ctx context.Context, ev bot.ModalSubmitEvent)
}

// Gateway runs the Socket Mode loop and dispatches events to the handler.
type Gateway struct {
	api       *slack.Client
	socket    *socketmode.Client
	handler   Handler
	logger    logging.Logger
	botUserID string
	dedup     *lru.Cache[string, struct{}]
}

func NewGateway(api *slack.Client, handler Handler, logger logging.Logger) (*Gateway, error) {
	if api == nil {
		return nil, fmt.Errorf("gateway requires a slack client")
	}
	if handler == nil {
		return nil, fmt.Errorf("gateway requires a handler")
	}
	dedup, err := lru.New[string, struct{}](dedupSize)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		api:     api,
		socket:  socketmode.New(api),
		handler: handler,
		logger:  logging.OrNop(logger),
		dedup:   dedup,
	}, nil
}

// Run connects and consumes events until ctx is cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	auth, err := g.api.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("auth test: %w", err)
	}
	g.botUserID = auth.UserID
	g.logger.Info("slackbridge: connected as %s (%s)", auth.User, auth.UserID)

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.socket.RunContext(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case evt, ok := <-g.socket.Events:
			if !ok {
				return fmt.Errorf("socket event channel closed")
			}
			g.dispatch(ctx, evt)
		}
	}
}

func (g *Gateway) dispatch(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		g.logger.Debug("slackbridge: connecting")
	case socketmode.EventTypeConnected:
		g.logger.Info("slackbridge: socket connected")
	case socketmode.EventTypeConnectionError:
		g.logger.Warn("slackbridge: connection error: %v", evt.Data)
	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		if evt.Request != nil {
			g.socket.Ack(*evt.Request)
		}
		g.handleEventsAPI(ctx, apiEvent)
	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		if evt.Request != nil {
			g.socket.Ack(*evt.Request)
		}
		g.handleInteractive(ctx, callback)
	}
}

func (g *Gateway) handleEventsAPI(ctx context.Context, apiEvent slackevents.EventsAPIEvent) {
	switch inner := apiEvent.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		if !g.firstDelivery("mention:" + inner.Channel + ":" + inner.TimeStamp) {
			return
		}
		ev := bot.MentionEvent{
			ChannelID: inner.Channel,
			UserID:    inner.User,
			Text:      inner.Text,
			TS:        inner.TimeStamp,
			ThreadTS:  inner.ThreadTimeStamp,
		}
		go g.handler.HandleMention(ctx, ev)
	case *slackevents.MessageEvent:
		ev, ok := threadMessageFrom(inner, g.botUserID)
		if !ok {
			return
		}
		if !g.firstDelivery("message:" + inner.Channel + ":" + inner.TimeStamp) {
			return
		}
		go g.handler.HandleThreadMessage(ctx, ev)
	}
}

// threadMessageFrom filters a channel message down to a thread auto-reply
// candidate. Messages with unsupported subtypes or outside a thread are
// dropped here; bot and mention flags are left for the handler, which also
// checks thread ownership.
func threadMessageFrom(msg *slackevents.MessageEvent, botUserID string) (bot.ThreadMessageEvent, bool) {
	if msg.SubType != "" && msg.SubType != "file_share" {
		return bot.ThreadMessageEvent{}, false
	}
	if msg.ThreadTimeStamp == "" {
		return bot.ThreadMessageEvent{}, false
	}
	return bot.ThreadMessageEvent{
		ChannelID:   msg.Channel,
		UserID:      msg.User,
		Text:        msg.Text,
		ThreadTS:    msg.ThreadTimeStamp,
		FromBot:     msg.BotID != "",
		MentionsBot: botUserID != "" && strings.Contains(msg.Text, "<@"+botUserID+">"),
	}, true
}

func (g *Gateway) handleInteractive(ctx context.Context, callback slack.InteractionCallback) {
	switch callback.Type {
	case slack.InteractionTypeBlockActions:
		ev, ok := actionEventFrom(callback)
		if !ok {
			g.logger.Debug("slackbridge: block action without actions, ignoring")
			return
		}
		go g.handler.HandleAction(ctx, ev)
	case slack.InteractionTypeViewSubmission:
		ev, ok := modalSubmitFrom(callback)
		if !ok {
			g.logger.Debug("slackbridge: view submission without content, ignoring")
			return
		}
		go g.handler.HandleModalSubmit(ctx, ev)
	}
}

func actionEventFrom(callback slack.InteractionCallback) (bot.ActionEvent, bool) {
	actions := callback.ActionCallback.BlockActions
	if len(actions) == 0 {
		return bot.ActionEvent{}, false
	}
	channelID := callback.Channel.ID
	if channelID == "" {
		channelID = callback.Container.ChannelID
	}
	return bot.ActionEvent{
		Action:    bot.Action(actions[0].ActionID),
		ActionID:  actions[0].Value,
		UserID:    callback.User.ID,
		ChannelID: channelID,
		TriggerID: callback.TriggerID,
	}, true
}

func modalSubmitFrom(callback slack.InteractionCallback) (bot.ModalSubmitEvent, bool) {
	if callback.View.State == nil {
		return bot.ModalSubmitEvent{}, false
	}
	blockValues, ok := callback.View.State.Values[modalContentBlockID]
	if !ok {
		return bot.ModalSubmitEvent{}, false
	}
	return bot.ModalSubmitEvent{
		CallbackID: callback.View.CallbackID,
		ActionID:   callback.View.PrivateMetadata,
		Content:    blockValues[modalContentInputID].Value,
	}, true
}

// firstDelivery reports whether the key is new, recording it. Redeliveries
// return false.
func (g *Gateway) firstDelivery(key string) bool {
	if _, seen := g.dedup.Get(key); seen {
		g.logger.Debug("slackbridge: duplicate delivery %s", key)
		return false
	}
	g.dedup.Add(key, struct{}{})
	return true
}
