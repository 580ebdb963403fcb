package ports

import (
	"context"
	"time"
)

// JournalEntry is one recorded user action.
type JournalEntry struct {
	Time    time.Time `json:"time"`
	UserID  int64     `json:"user_id"`
	Action  string    `json:"action"`
	Details string    `json:"details,omitempty"`
}

// Kinds of JournalEntry.Action.
const (
	ActionCommand = "command"
	ActionButton  = "button"
	ActionText    = "text"
)

// ActionJournal records user actions for later inspection.
type ActionJournal interface {
	Record(ctx context.Context, entry JournalEntry) error
}

// NopJournal discards every entry.
type NopJournal struct{}

// Record implements ActionJournal.
func (NopJournal) Record(context.Context, JournalEntry) error { return nil }

// JournalReader reads back recorded actions.
type JournalReader interface {
	// Entries returns the most recent limit entries of userID, oldest first.
	// A limit of zero or less returns every entry.
	Entries(ctx context.Context, userID int64, limit int) ([]JournalEntry, error)
}

// Journal is a journal that can be read back, like the file and Redis backends.
type Journal interface {
	ActionJournal
	JournalReader
}
