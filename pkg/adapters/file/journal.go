// Package file provides filesystem-backed adapters.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/aretw0/excursion/pkg/ports"
)

// LogName is the per-user journal file name.
const LogName = "actions.log"

// Journal implements ports.ActionJournal using the local filesystem.
// Every user gets a directory holding a JSON-lines log of their actions.
type Journal struct {
	BasePath string

	mu sync.Mutex
}

// NewJournal creates a new Journal with the given base path.
// If basePath is empty, it defaults to "users".
func NewJournal(basePath string) *Journal {
	if basePath == "" {
		basePath = "users"
	}
	return &Journal{BasePath: basePath}
}

func (j *Journal) path(userID int64) string {
	return filepath.Join(j.BasePath, strconv.FormatInt(userID, 10), LogName)
}

// Record appends the entry to the user's log, creating directories as needed.
func (j *Journal) Record(ctx context.Context, entry ports.JournalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	path := j.path(entry.UserID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to ensure journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to journal: %w", err)
	}
	return f.Close()
}

// Entries implements ports.JournalReader.
func (j *Journal) Entries(ctx context.Context, userID int64, limit int) ([]ports.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path(userID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var entries []ports.JournalEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e ports.JournalEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
