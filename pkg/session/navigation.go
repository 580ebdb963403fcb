package session

import (
	"slices"

	"github.com/aretw0/excursion/pkg/domain"
)

// Navigation is the mutable state of one user.
// It is not safe for concurrent use; the Registry serializes access.
type Navigation struct {
	UserID int64
	ChatID int64

	current   string
	trackBack bool
	backStack []string
	history   []domain.MessageHandle
}

// NewNavigation creates an idle session. trackBack enables the back stack (graph variant).
func NewNavigation(userID int64, trackBack bool) *Navigation {
	return &Navigation{UserID: userID, trackBack: trackBack}
}

// Current returns the location being viewed, or false before the first start.
func (n *Navigation) Current() (string, bool) {
	return n.current, n.current != ""
}

// SetCurrent records the location being viewed.
func (n *Navigation) SetCurrent(id string) {
	n.current = id
}

// Reset clears the back stack and the message history.
func (n *Navigation) Reset() {
	n.backStack = n.backStack[:0]
	n.history = nil
}

// PushLocation appends id to the back stack unless it already is the top entry.
// It is a no-op when back navigation is disabled.
func (n *Navigation) PushLocation(id string) {
	if !n.trackBack {
		return
	}
	if len(n.backStack) > 0 && n.backStack[len(n.backStack)-1] == id {
		return
	}
	n.backStack = append(n.backStack, id)
}

// PopLocation removes the top entry and returns the new top.
// With one entry or fewer it reports false and leaves the stack untouched.
func (n *Navigation) PopLocation() (string, bool) {
	prev, ok := n.Previous()
	if !ok {
		return "", false
	}
	n.backStack = n.backStack[:len(n.backStack)-1]
	return prev, true
}

// Previous returns the entry below the top without modifying the stack.
func (n *Navigation) Previous() (string, bool) {
	if len(n.backStack) < 2 {
		return "", false
	}
	return n.backStack[len(n.backStack)-2], true
}

// BackDepth returns the number of entries on the back stack.
func (n *Navigation) BackDepth() int {
	return len(n.backStack)
}

// BackStack returns a copy of the back stack, bottom first.
func (n *Navigation) BackStack() []string {
	return slices.Clone(n.backStack)
}

// RecordMessages appends handles to the message history.
func (n *Navigation) RecordMessages(handles ...domain.MessageHandle) {
	n.history = append(n.history, handles...)
}

// DrainMessageHistory returns the message history and clears it.
// The caller owns deleting the returned handles.
func (n *Navigation) DrainMessageHistory() []domain.MessageHandle {
	drained := n.history
	n.history = nil
	return drained
}

// MessageHistory returns a copy of the message history.
func (n *Navigation) MessageHistory() []domain.MessageHandle {
	return slices.Clone(n.history)
}

// Snapshot is a read-only copy of a Navigation.
type Snapshot struct {
	UserID    int64                  `json:"user_id"`
	ChatID    int64                  `json:"chat_id"`
	Current   string                 `json:"current,omitempty"`
	BackStack []string               `json:"back_stack"`
	History   []domain.MessageHandle `json:"history"`
}

// Snapshot copies the session state.
func (n *Navigation) Snapshot() Snapshot {
	return Snapshot{
		UserID:    n.UserID,
		ChatID:    n.ChatID,
		Current:   n.current,
		BackStack: n.BackStack(),
		History:   n.MessageHistory(),
	}
}
