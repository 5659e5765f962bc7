package bot

import (
	"context"
	"fmt"
	"strings"

	"teambot/internal/command"
	"teambot/internal/history"
	"teambot/internal/knowledge"
	"teambot/internal/llm"
	"teambot/internal/review"
	"teambot/internal/slackmsg"
)

// HandleMention processes an explicit bot mention: settings commands, list
// queries, registration requests, and questions.
func (b *Bot) HandleMention(ctx context.Context, ev MentionEvent) {
	b.metrics.EventReceived("mention")
	threadTS := ev.ThreadTS
	if threadTS == "" {
		threadTS = ev.TS
	}
	if err := b.handleMention(ctx, ev, threadTS); err != nil {
		b.reportError(ctx, ev.ChannelID, threadTS, err)
	}
}

func (b *Bot) handleMention(ctx context.Context, ev MentionEvent, threadTS string) error {
	cleaned := command.CleanMentions(ev.Text)

	// Channel settings commands bypass the parser: "설정 <팀>" binds the
	// channel, "설정해제" clears it.
	if fields := strings.Fields(cleaned); len(fields) > 0 {
		switch fields[0] {
		case "설정":
			return b.handleChannelBind(ctx, ev.ChannelID, threadTS, fields[1:])
		case "설정해제":
			return b.handleChannelUnbind(ctx, ev.ChannelID, threadTS)
		}
	}

	parsed := command.Parse(ev.Text, b.teams)
	if parsed.TeamKey == "" {
		parsed.TeamKey = b.resolver.Resolve(ctx, ev.ChannelID, ev.ThreadTS)
	}

	switch parsed.Intent {
	case command.IntentLearningList:
		return b.handleList(ctx, ev.ChannelID, threadTS, parsed.TeamKey, knowledge.KindLearning)
	case command.IntentStandardList:
		return b.handleList(ctx, ev.ChannelID, threadTS, parsed.TeamKey, knowledge.KindStandard)
	case command.IntentLearning:
		return b.handleRegistration(ctx, ev, threadTS, parsed, knowledge.KindLearning)
	case command.IntentStandard:
		return b.handleRegistration(ctx, ev, threadTS, parsed, knowledge.KindStandard)
	default:
		return b.handleQuestion(ctx, ev, threadTS, parsed)
	}
}

func (b *Bot) handleChannelBind(ctx context.Context, channelID, threadTS string, args []string) error {
	if len(args) == 0 {
		_, err := b.messenger.PostMessage(ctx, channelID, threadTS,
			"설정할 팀명을 입력해주세요. 예: `@봇 설정 마케팅`")
		return err
	}
	key := b.teams.ResolveKey(args[0])
	if key == "" {
		_, err := b.messenger.PostMessage(ctx, channelID, threadTS,
			fmt.Sprintf("알 수 없는 팀입니다: `%s`", args[0]))
		return err
	}
	if err := b.history.SetChannelTeam(channelID, key); err != nil {
		return fmt.Errorf("set channel team: %w", err)
	}
	_, err := b.messenger.PostMessage(ctx, channelID, threadTS,
		fmt.Sprintf("✅ 이 채널이 %s에 연결되었습니다.", b.teams.Label(key)))
	return err
}

func (b *Bot) handleChannelUnbind(ctx context.Context, channelID, threadTS string) error {
	if err := b.history.ClearChannelTeam(channelID); err != nil {
		return fmt.Errorf("clear channel team: %w", err)
	}
	_, err := b.messenger.PostMessage(ctx, channelID, threadTS, "✅ 채널 팀 설정이 해제되었습니다.")
	return err
}

func (b *Bot) handleList(ctx context.Context, channelID, threadTS, teamKey string, kind knowledge.Kind) error {
	if teamKey == "" {
		_, err := b.messenger.PostMessage(ctx, channelID, threadTS,
			"팀명을 지정해주세요. 예: `@봇 마케팅-학습목록`")
		return err
	}
	items, err := b.docs.List(teamKey, kind)
	if err != nil {
		return fmt.Errorf("list %s items: %w", kind, err)
	}
	teamLabel := b.teams.Label(teamKey)
	if len(items) == 0 {
		_, err := b.messenger.PostMessage(ctx, channelID, threadTS,
			fmt.Sprintf("%s - 등록된 %s이 없습니다.", teamLabel, kind.Label()))
		return err
	}
	var lines []string
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
	}
	_, err = b.messenger.PostMessage(ctx, channelID, threadTS,
		fmt.Sprintf("%s - %s 목록 (%d건)\n\n%s", teamLabel, kind.Label(), len(items), strings.Join(lines, "\n")))
	return err
}

func (b *Bot) handleRegistration(ctx context.Context, ev MentionEvent, threadTS string, parsed command.ParsedCommand, kind knowledge.Kind) error {
	if parsed.TeamKey == "" {
		_, err := b.messenger.PostMessage(ctx, ev.ChannelID, threadTS,
			"팀명을 지정해주세요. 예: `@봇 마케팅-학습 [내용]`")
		return err
	}
	body := strings.TrimSpace(parsed.Body)
	if body == "" {
		_, err := b.messenger.PostMessage(ctx, ev.ChannelID, threadTS,
			fmt.Sprintf("등록할 %s 내용을 입력해주세요.", kind.KoreanName()))
		return err
	}

	teamLabel := b.teams.Label(parsed.TeamKey)
	if _, err := b.messenger.PostMessage(ctx, ev.ChannelID, threadTS,
		fmt.Sprintf("%s %s 등록 검토 중...", teamLabel, kind.Label())); err != nil {
		return err
	}

	doc, err := b.docs.Read(parsed.TeamKey)
	if err != nil {
		return fmt.Errorf("read team document: %w", err)
	}
	result, err := b.reviewer.Review(ctx, doc, kind, body)
	if err != nil {
		return err
	}

	actionID := review.NewActionID()
	b.pending.Put(actionID, review.PendingRegistration{
		TeamKey:   parsed.TeamKey,
		Kind:      kind,
		Original:  body,
		Improved:  result.Improved,
		UserID:    ev.UserID,
		ChannelID: ev.ChannelID,
		ThreadTS:  threadTS,
	})

	_, err = b.messenger.PostReviewPrompt(ctx, ev.ChannelID, threadTS, ReviewPrompt{
		TeamLabel:   teamLabel,
		KindLabel:   kind.Label(),
		ReviewText:  result.Text,
		ActionID:    actionID,
		HasImproved: result.Improved != "",
	})
	return err
}

func (b *Bot) handleQuestion(ctx context.Context, ev MentionEvent, threadTS string, parsed command.ParsedCommand) error {
	teamLabel := b.teams.Label(parsed.TeamKey)
	body := strings.TrimSpace(parsed.Body)
	if body == "" {
		help := "무엇을 도와드릴까요? 팀명과 함께 질문해주세요.\n예: `@봇 마케팅 광고 캠페인 기획해줘`"
		if parsed.TeamKey != "" {
			help = fmt.Sprintf("%s에게 질문하려면 내용을 입력해주세요.\n예: `@봇 %s 광고 캠페인 기획해줘`",
				teamLabel, parsed.TeamKey)
		}
		_, err := b.messenger.PostMessage(ctx, ev.ChannelID, threadTS, help)
		return err
	}

	doc, err := b.docs.Read(parsed.TeamKey)
	if err != nil {
		return fmt.Errorf("read team document: %w", err)
	}

	var messages []llm.Message
	if ev.ThreadTS != "" {
		messages = b.historyMessages(ev.ChannelID, ev.ThreadTS)
	}
	b.saveTurn(ev.ChannelID, threadTS, parsed.TeamKey, history.RoleUser, body)

	if _, err := b.messenger.PostMessage(ctx, ev.ChannelID, threadTS,
		teamLabel+" 응답 생성 중... :hourglass_flowing_sand:"); err != nil {
		return err
	}

	messages = append(messages, llm.Message{Role: "user", Content: body})
	response, err := b.llm.Complete(ctx, llm.Request{
		System:    doc,
		Messages:  messages,
		MaxTokens: questionMaxTokens,
	})
	if err != nil {
		return err
	}
	b.saveTurn(ev.ChannelID, threadTS, parsed.TeamKey, history.RoleAssistant, response)

	for _, chunk := range slackmsg.Split(teamLabel+"\n\n"+response, slackmsg.MaxMessageLength) {
		if _, err := b.messenger.PostMessage(ctx, ev.ChannelID, threadTS, chunk); err != nil {
			return err
		}
	}
	return nil
}
