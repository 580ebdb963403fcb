package telegram_test

import (
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fakeAPI records every request and answers with increasing message ids.
type fakeAPI struct {
	mu       sync.Mutex
	nextID   int
	sent     []tgbotapi.Chattable
	groups   []tgbotapi.MediaGroupConfig
	requests []tgbotapi.Chattable
	failSend bool

	updates chan tgbotapi.Update
	stopped bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 8)}
}

func (f *fakeAPI) message(chatID int64) tgbotapi.Message {
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID, Chat: &tgbotapi.Chat{ID: chatID}}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return tgbotapi.Message{}, errors.New("Bad Request")
	}
	f.sent = append(f.sent, c)
	var chatID int64
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		chatID = v.ChatID
	case tgbotapi.PhotoConfig:
		chatID = v.ChatID
	case tgbotapi.AudioConfig:
		chatID = v.ChatID
	}
	return f.message(chatID), nil
}

func (f *fakeAPI) SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups = append(f.groups, config)
	msgs := make([]tgbotapi.Message, 0, len(config.Media))
	for range config.Media {
		msgs = append(msgs, f.message(config.ChatID))
	}
	return msgs, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) Requests() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.requests...)
}
