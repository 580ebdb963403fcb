package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/excursion/pkg/ports"
)

// Journal implements ports.ActionJournal in memory.
// Safe for concurrent use.
type Journal struct {
	entries []ports.JournalEntry
	mu      sync.RWMutex
}

// NewJournal creates an empty in-memory journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends the entry.
func (j *Journal) Record(ctx context.Context, entry ports.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

// Entries implements ports.JournalReader.
func (j *Journal) Entries(_ context.Context, userID int64, limit int) ([]ports.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []ports.JournalEntry
	for _, e := range j.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// All returns a copy of every entry.
func (j *Journal) All() []ports.JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return slices.Clone(j.entries)
}
