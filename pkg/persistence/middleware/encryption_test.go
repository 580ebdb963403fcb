package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/excursion/pkg/adapters/memory"
	"github.com/aretw0/excursion/pkg/persistence/middleware"
	"github.com/aretw0/excursion/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func mustEncryption(t *testing.T, config middleware.EncryptionConfig) middleware.Middleware {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(config)
	if err != nil {
		t.Fatal(err)
	}
	return mw
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	// Setup
	underlying := memory.NewJournal()
	secure := mustEncryption(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)

	ctx := context.Background()
	entry := ports.JournalEntry{UserID: 1, Action: "text", Details: "my phone is secret"}

	// 1. Record
	if err := secure.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// 2. Verify underlying journal directly (Should be encrypted)
	stored := underlying.All()
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(stored))
	}
	if strings.Contains(stored[0].Details, "secret") {
		t.Fatalf("Expected details to be hidden, found: %v", stored[0].Details)
	}
	if stored[0].Action != "text" || stored[0].UserID != 1 {
		t.Errorf("Expected action and user to stay readable, got %+v", stored[0])
	}

	// 3. Read via middleware (Should be decrypted)
	entries, err := secure.Entries(ctx, 1, 0)
	if err != nil {
		t.Fatalf("Entries via middleware failed: %v", err)
	}
	if entries[0].Details != "my phone is secret" {
		t.Errorf("Expected 'my phone is secret', got %v", entries[0].Details)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	// Setup
	underlying := memory.NewJournal()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureOld := mustEncryption(t, middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	ctx := context.Background()

	// 1. Record with OLD key
	if err := secureOld.Record(ctx, ports.JournalEntry{UserID: 2, Details: "old"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// 2. Read with NEW key (Active) + OLD key (Fallback)
	secureNew := mustEncryption(t, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	entries, err := secureNew.Entries(ctx, 2, 0)
	if err != nil {
		t.Fatalf("Entries with rotated key failed: %v", err)
	}
	if entries[0].Details != "old" {
		t.Errorf("Decryption with fallback key failed")
	}

	// 3. Record again (Should now use the NEW key)
	if err := secureNew.Record(ctx, ports.JournalEntry{UserID: 2, Details: "new"}); err != nil {
		t.Fatalf("Record with new key failed: %v", err)
	}

	// 4. Verify we CANNOT read with just the OLD key anymore
	if _, err := secureOld.Entries(ctx, 2, 0); err == nil {
		t.Error("Expected failure when reading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_PlainEntriesPassThrough(t *testing.T) {
	underlying := memory.NewJournal()
	ctx := context.Background()
	_ = underlying.Record(ctx, ports.JournalEntry{UserID: 3, Details: "/start"})

	secure := mustEncryption(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	entries, err := secure.Entries(ctx, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Details != "/start" {
		t.Errorf("expected plain entry untouched, got %q", entries[0].Details)
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	if _, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")}); err == nil {
		t.Error("Expected error for invalid key size")
	}
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	parsed, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatal(err)
	}
	if string(parsed) != string(key) {
		t.Error("key did not round trip")
	}

	if _, err := middleware.ParseKey("not base64!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("expected error for short key")
	}
}
