package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/excursion/pkg/adapters/redis"
	"github.com/aretw0/excursion/pkg/ports"
)

func TestJournal_RecordAndRead(t *testing.T) {
	mr, client := setup(t)
	journal := redis.NewJournal(client, "excursion:", 0)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, journal.Record(ctx, ports.JournalEntry{Time: now, UserID: 9, Action: "command", Details: "/start"}))
	require.NoError(t, journal.Record(ctx, ports.JournalEntry{Time: now, UserID: 9, Action: "button", Details: "start_excursion"}))
	require.NoError(t, journal.Record(ctx, ports.JournalEntry{Time: now, UserID: 10, Action: "command", Details: "/map"}))

	assert.True(t, mr.Exists("excursion:journal:9"))

	entries, err := journal.Entries(ctx, 9, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/start", entries[0].Details)
	assert.Equal(t, "start_excursion", entries[1].Details)
	assert.True(t, now.Equal(entries[0].Time))

	entries, err = journal.Entries(ctx, 9, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "start_excursion", entries[0].Details)

	entries, err = journal.Entries(ctx, 11, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournal_Capped(t *testing.T) {
	_, client := setup(t)
	journal := redis.NewJournal(client, "excursion:", 3)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, journal.Record(ctx, ports.JournalEntry{UserID: 1, Action: "button", Details: fmt.Sprint(i)}))
	}

	entries, err := journal.Entries(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2", entries[0].Details)
	assert.Equal(t, "4", entries[2].Details)
}
