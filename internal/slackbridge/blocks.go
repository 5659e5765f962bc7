package slackbridge

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"teambot/internal/bot"
)

const (
	modalContentBlockID = "content_block"
	modalContentInputID = "content_input"
)

// PostReviewPrompt renders the review critique with the numbered choice
// buttons. The improved-registration button only appears when an improvement
// was extracted.
func (m *Messenger) PostReviewPrompt(ctx context.Context, channelID, threadTS string, prompt bot.ReviewPrompt) (string, error) {
	opts := []slack.MsgOption{
		slack.MsgOptionText(prompt.KindLabel+" 등록 검토 결과", false),
		slack.MsgOptionBlocks(reviewBlocks(prompt)...),
	}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}
	_, ts, err := m.api.PostMessageContext(ctx, channelID, opts...)
	if err != nil {
		return "", fmt.Errorf("post review prompt: %w", err)
	}
	return ts, nil
}

func reviewBlocks(prompt bot.ReviewPrompt) []slack.Block {
	header := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*%s* - %s 등록 검토", prompt.TeamLabel, prompt.KindLabel), false, false),
		nil, nil)
	body := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, prompt.ReviewText, false, false),
		nil, nil)

	button := func(action bot.Action, label string) *slack.ButtonBlockElement {
		return slack.NewButtonBlockElement(string(action), prompt.ActionID,
			slack.NewTextBlockObject(slack.PlainTextType, label, true, false))
	}

	elements := []slack.BlockElement{
		button(bot.ActionRegisterOriginal, "1️⃣ 원본 그대로 등록").WithStyle(slack.StylePrimary),
	}
	if prompt.HasImproved {
		elements = append(elements,
			button(bot.ActionRegisterImproved, "2️⃣ 개선안으로 등록").WithStyle(slack.StylePrimary))
	}
	elements = append(elements,
		button(bot.ActionRegisterCustom, "3️⃣ 직접 수정 후 등록"),
		button(bot.ActionRegisterCancel, "4️⃣ 취소").WithStyle(slack.StyleDanger),
	)

	return []slack.Block{
		header,
		slack.NewDividerBlock(),
		body,
		slack.NewDividerBlock(),
		slack.NewActionBlock(prompt.ActionID, elements...),
	}
}

// OpenEditModal opens the direct-edit dialog, seeded with the improved text
// when one exists.
func (m *Messenger) OpenEditModal(ctx context.Context, triggerID string, modal bot.EditModal) error {
	input := slack.NewPlainTextInputBlockElement(nil, modalContentInputID)
	input.Multiline = true
	input.InitialValue = modal.InitialValue

	view := slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      bot.ModalCustomRegister,
		PrivateMetadata: modal.ActionID,
		Title:           slack.NewTextBlockObject(slack.PlainTextType, modal.KindLabel+" 직접 수정", true, false),
		Submit:          slack.NewTextBlockObject(slack.PlainTextType, "등록", false, false),
		Close:           slack.NewTextBlockObject(slack.PlainTextType, "취소", false, false),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewInputBlock(modalContentBlockID,
				slack.NewTextBlockObject(slack.PlainTextType, "등록할 내용을 수정해주세요", false, false),
				nil, input),
		}},
	}
	if _, err := m.api.OpenViewContext(ctx, triggerID, view); err != nil {
		return fmt.Errorf("open edit modal: %w", err)
	}
	return nil
}
