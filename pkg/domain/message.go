package domain

// Target addresses the user and chat an operation acts on.
type Target struct {
	UserID int64 `json:"user_id"`
	ChatID int64 `json:"chat_id"`
}

// MessageHandle identifies a delivered message so it can be deleted later.
type MessageHandle struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

// SendOptions tunes how the transport delivers a message.
type SendOptions struct {
	// Silent delivers without a notification sound.
	Silent bool
}

// ControlKind classifies an affordance.
type ControlKind string

const (
	ControlForward ControlKind = "forward"
	ControlBack    ControlKind = "back"
	ControlRestart ControlKind = "restart"
	ControlJump    ControlKind = "jump"
	ControlBegin   ControlKind = "begin"
)

// Control is a button rendered next to a message.
type Control struct {
	Kind    ControlKind `json:"kind"`
	Label   string      `json:"label"`
	Payload string      `json:"payload"`
}

// Text is the body of a text message. Title is optional and rendered emphasised.
type Text struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
}

// View summarises what was rendered for a user after a transition.
type View struct {
	LocationID string   `json:"location_id"`
	Options    []string `json:"options"`
	CanGoBack  bool     `json:"can_go_back"`
	Terminal   bool     `json:"terminal"`
	// Degraded is set when images or audio could not be delivered.
	Degraded bool `json:"degraded,omitempty"`
}
