package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/excursion/pkg/ports"
)

// DefaultJournalLength caps the entries kept per user.
const DefaultJournalLength = 1000

// Journal implements ports.ActionJournal with one capped Redis list per user.
type Journal struct {
	client backend.UniversalClient
	prefix string
	maxLen int64
}

// NewJournal creates a journal writing under prefix. maxLen <= 0 uses DefaultJournalLength.
func NewJournal(client backend.UniversalClient, prefix string, maxLen int) *Journal {
	if maxLen <= 0 {
		maxLen = DefaultJournalLength
	}
	return &Journal{client: client, prefix: prefix, maxLen: int64(maxLen)}
}

func (j *Journal) key(userID int64) string {
	return j.prefix + "journal:" + strconv.FormatInt(userID, 10)
}

// Record appends the entry and trims the list to its cap.
func (j *Journal) Record(ctx context.Context, entry ports.JournalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	key := j.key(entry.UserID)
	pipe := j.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -j.maxLen, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record action in redis: %w", err)
	}
	return nil
}

// Entries implements ports.JournalReader.
func (j *Journal) Entries(ctx context.Context, userID int64, limit int) ([]ports.JournalEntry, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	raw, err := j.client.LRange(ctx, j.key(userID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal from redis: %w", err)
	}

	entries := make([]ports.JournalEntry, 0, len(raw))
	for _, item := range raw {
		var e ports.JournalEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
