// Package bot implements the event handlers behind the chat surface: mention
// commands, in-thread auto replies, and the review button/modal flow. The
// transport adapter translates platform payloads into the typed events here
// and renders outbound messages through the Messenger interface.
package bot

// MentionEvent is a message that mentions the bot directly.
type MentionEvent struct {
	ChannelID string
	UserID    string
	Text      string
	// TS is the message's own timestamp; it becomes the thread root when
	// the mention is not already inside a thread.
	TS       string
	ThreadTS string
}

// ThreadMessageEvent is a plain message inside a thread, without a mention.
type ThreadMessageEvent struct {
	ChannelID string
	UserID    string
	Text      string
	ThreadTS  string
	// FromBot marks messages authored by any bot, including this one.
	FromBot bool
	// MentionsBot marks messages that carry an explicit mention; those
	// arrive again as MentionEvent and must not be answered twice.
	MentionsBot bool
}

// Action identifies which review button was pressed.
type Action string

const (
	ActionRegisterOriginal Action = "register_original"
	ActionRegisterImproved Action = "register_improved"
	ActionRegisterCustom   Action = "register_custom"
	ActionRegisterCancel   Action = "register_cancel"
)

// ModalCustomRegister is the callback ID of the direct-edit modal.
const ModalCustomRegister = "custom_register_modal"

// ActionEvent is a button press on a review message.
type ActionEvent struct {
	Action    Action
	ActionID  string
	UserID    string
	ChannelID string
	TriggerID string
}

// ModalSubmitEvent is a submitted direct-edit modal.
type ModalSubmitEvent struct {
	CallbackID string
	ActionID   string
	Content    string
}
