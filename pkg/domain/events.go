package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLocationEnter EventType = "location_enter"
	EventRenderFailed  EventType = "render_failed"
	EventDeleteFailed  EventType = "delete_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	UserID    int64     `json:"user_id"`
}

// LocationEvent is emitted after a location was rendered for a user.
type LocationEvent struct {
	EventBase
	LocationID string        `json:"location_id"`
	Transition string        `json:"transition"` // start, select, jump, back, restart
	Degraded   bool          `json:"degraded,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// FailureEvent is emitted when a render or a deletion fails.
type FailureEvent struct {
	EventBase
	LocationID string `json:"location_id,omitempty"`
	Err        error  `json:"-"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnLocationEnter func(context.Context, *LocationEvent)
	OnRenderFailed  func(context.Context, *FailureEvent)
	OnDeleteFailed  func(context.Context, *FailureEvent)
}
