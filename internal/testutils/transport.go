package testutils

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/aretw0/excursion/pkg/domain"
)

// ErrInjected is returned by Transport when a failure is configured without a specific error.
var ErrInjected = errors.New("injected transport failure")

// Sent is one delivery recorded by Transport.
type Sent struct {
	Op       string // media_group, text, audio
	ChatID   int64
	Text     domain.Text
	Controls []domain.Control
	Assets   []string
	Silent   bool
	Handles  []domain.MessageHandle
}

// Transport is an in-memory ports.MessageTransport that records every call.
// Safe for concurrent use.
type Transport struct {
	mu      sync.Mutex
	nextID  int
	sent    []Sent
	deleted []domain.MessageHandle
	live    map[domain.MessageHandle]bool

	FailImages error
	FailText   error
	FailAudio  error
	// FailDelete makes deleting the given message ids fail.
	FailDelete map[int]bool
}

// NewTransport creates an empty recording transport.
func NewTransport() *Transport {
	return &Transport{live: make(map[domain.MessageHandle]bool)}
}

func (f *Transport) issue(chatID int64) domain.MessageHandle {
	f.nextID++
	h := domain.MessageHandle{ChatID: chatID, MessageID: f.nextID}
	f.live[h] = true
	return h
}

// SendMediaGroup issues one handle per image.
func (f *Transport) SendMediaGroup(_ context.Context, chatID int64, images []string, opts domain.SendOptions) ([]domain.MessageHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailImages != nil {
		return nil, f.FailImages
	}
	handles := make([]domain.MessageHandle, 0, len(images))
	for range images {
		handles = append(handles, f.issue(chatID))
	}
	f.sent = append(f.sent, Sent{Op: "media_group", ChatID: chatID, Assets: slices.Clone(images), Silent: opts.Silent, Handles: handles})
	return slices.Clone(handles), nil
}

// SendText records the text and its controls.
func (f *Transport) SendText(_ context.Context, chatID int64, text domain.Text, controls []domain.Control, opts domain.SendOptions) (domain.MessageHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailText != nil {
		return domain.MessageHandle{}, f.FailText
	}
	h := f.issue(chatID)
	f.sent = append(f.sent, Sent{Op: "text", ChatID: chatID, Text: text, Controls: slices.Clone(controls), Silent: opts.Silent, Handles: []domain.MessageHandle{h}})
	return h, nil
}

// SendAudio records the audio asset.
func (f *Transport) SendAudio(_ context.Context, chatID int64, asset string, opts domain.SendOptions) (domain.MessageHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailAudio != nil {
		return domain.MessageHandle{}, f.FailAudio
	}
	h := f.issue(chatID)
	f.sent = append(f.sent, Sent{Op: "audio", ChatID: chatID, Assets: []string{asset}, Silent: opts.Silent, Handles: []domain.MessageHandle{h}})
	return h, nil
}

// DeleteMessage removes the handle from the live set.
func (f *Transport) DeleteMessage(_ context.Context, h domain.MessageHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDelete[h.MessageID] {
		return ErrInjected
	}
	delete(f.live, h)
	f.deleted = append(f.deleted, h)
	return nil
}

// Sent returns every recorded delivery, oldest first.
func (f *Transport) Sent() []Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sent)
}

// Last returns the most recent delivery of the given op.
func (f *Transport) Last(op string) (Sent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].Op == op {
			return f.sent[i], true
		}
	}
	return Sent{}, false
}

// Deleted returns every deleted handle sorted by message id.
func (f *Transport) Deleted() []domain.MessageHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(f.deleted)
	sortHandles(out)
	return out
}

// Live returns the messages still visible in chats, sorted by message id.
func (f *Transport) Live() []domain.MessageHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.MessageHandle, 0, len(f.live))
	for h := range f.live {
		out = append(out, h)
	}
	sortHandles(out)
	return out
}

// Reset forgets recorded deliveries and deletions. Live messages stay live.
func (f *Transport) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.deleted = nil
}

func sortHandles(hs []domain.MessageHandle) {
	slices.SortFunc(hs, func(a, b domain.MessageHandle) int {
		return a.MessageID - b.MessageID
	})
}
