package bot

import (
	"context"
	"fmt"
	"strings"

	"teambot/internal/review"
)

const expiredMessage = "등록 정보가 만료되었습니다. 다시 시도해주세요."

// HandleAction processes a button press on a review message. Each pending
// registration is consumed at most once; a missing entry means it expired or
// was already acted on.
func (b *Bot) HandleAction(ctx context.Context, ev ActionEvent) {
	b.metrics.EventReceived("action")

	var err error
	switch ev.Action {
	case ActionRegisterOriginal:
		err = b.handleRegisterOriginal(ctx, ev)
	case ActionRegisterImproved:
		err = b.handleRegisterImproved(ctx, ev)
	case ActionRegisterCustom:
		err = b.handleRegisterCustom(ctx, ev)
	case ActionRegisterCancel:
		b.pending.Remove(ev.ActionID)
		err = b.messenger.PostEphemeral(ctx, ev.ChannelID, ev.UserID, "등록이 취소되었습니다.")
	default:
		b.logger.Warn("bot: unknown action %q", ev.Action)
		return
	}
	if err != nil {
		b.metrics.ErrorReported()
		b.logger.Error("bot: action %s failed: %v", ev.Action, err)
	}
}

func (b *Bot) handleRegisterOriginal(ctx context.Context, ev ActionEvent) error {
	reg, ok := b.pending.Take(ev.ActionID)
	if !ok {
		return b.messenger.PostEphemeral(ctx, ev.ChannelID, ev.UserID, expiredMessage)
	}
	return b.completeRegistration(ctx, reg, reg.Original, "")
}

func (b *Bot) handleRegisterImproved(ctx context.Context, ev ActionEvent) error {
	reg, ok := b.pending.Take(ev.ActionID)
	if !ok || reg.Improved == "" {
		return b.messenger.PostEphemeral(ctx, ev.ChannelID, ev.UserID,
			"등록 정보가 만료되었거나 개선안이 없습니다.")
	}
	return b.completeRegistration(ctx, reg, reg.Improved, " (개선안)")
}

// handleRegisterCustom opens the edit modal. The pending entry stays in
// place; the modal submission consumes it.
func (b *Bot) handleRegisterCustom(ctx context.Context, ev ActionEvent) error {
	reg, ok := b.pending.Get(ev.ActionID)
	if !ok {
		return b.messenger.PostEphemeral(ctx, ev.ChannelID, ev.UserID, expiredMessage)
	}
	initial := reg.Improved
	if initial == "" {
		initial = reg.Original
	}
	return b.messenger.OpenEditModal(ctx, ev.TriggerID, EditModal{
		ActionID:     ev.ActionID,
		KindLabel:    reg.Kind.Label(),
		InitialValue: initial,
	})
}

// HandleModalSubmit registers the edited content from the direct-edit modal.
func (b *Bot) HandleModalSubmit(ctx context.Context, ev ModalSubmitEvent) {
	if ev.CallbackID != ModalCustomRegister {
		b.logger.Warn("bot: unknown modal callback %q", ev.CallbackID)
		return
	}
	b.metrics.EventReceived("modal_submit")

	reg, ok := b.pending.Take(ev.ActionID)
	if !ok {
		return
	}
	content := strings.TrimSpace(ev.Content)
	if content == "" {
		return
	}
	if err := b.completeRegistration(ctx, reg, content, " (직접 수정)"); err != nil {
		b.metrics.ErrorReported()
		b.logger.Error("bot: modal registration failed: %v", err)
	}
}

// completeRegistration appends the item, commits best-effort, and confirms
// in the originating thread. Append failures are reported in-thread rather
// than returned: the interactive prompt must always resolve visibly.
func (b *Bot) completeRegistration(ctx context.Context, reg review.PendingRegistration, content, suffix string) error {
	if err := b.docs.AppendItem(reg.TeamKey, reg.Kind, content); err != nil {
		_, postErr := b.messenger.PostMessage(ctx, reg.ChannelID, reg.ThreadTS,
			fmt.Sprintf("❌ 등록 실패: %v", err))
		if postErr != nil {
			return fmt.Errorf("append failed (%v) and report failed: %w", err, postErr)
		}
		return nil
	}
	b.metrics.RegistrationCompleted(string(reg.Kind))

	if b.committer != nil {
		desc, ok := b.teams.Get(reg.TeamKey)
		name := desc.Name
		if !ok {
			name = reg.TeamKey
		}
		b.committer.CommitRegistration(ctx, name, reg.Kind, content, reg.UserID)
	}

	_, err := b.messenger.PostMessage(ctx, reg.ChannelID, reg.ThreadTS,
		fmt.Sprintf("✅ %s에 %s 등록 완료!%s\n> %s", b.teams.Label(reg.TeamKey), reg.Kind.Label(), suffix, content))
	return err
}
