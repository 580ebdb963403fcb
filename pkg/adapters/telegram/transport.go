package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aretw0/excursion/pkg/domain"
)

// MaxMediaGroup is the largest album the Bot API accepts.
const MaxMediaGroup = 10

// API is the subset of *tgbotapi.BotAPI used to deliver messages.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Transport implements ports.MessageTransport over the Bot API.
// Calls are synchronous HTTP requests; ctx is checked before each request.
type Transport struct {
	api API
}

// NewTransport wraps a Bot API client.
func NewTransport(api API) *Transport {
	return &Transport{api: api}
}

func handle(m tgbotapi.Message) domain.MessageHandle {
	var chatID int64
	if m.Chat != nil {
		chatID = m.Chat.ID
	}
	return domain.MessageHandle{ChatID: chatID, MessageID: m.MessageID}
}

// SendMediaGroup sends images as albums of at most MaxMediaGroup items.
// A single remaining image is sent as a photo since albums need two items.
func (t *Transport) SendMediaGroup(ctx context.Context, chatID int64, images []string, opts domain.SendOptions) ([]domain.MessageHandle, error) {
	var handles []domain.MessageHandle
	for start := 0; start < len(images); start += MaxMediaGroup {
		if err := ctx.Err(); err != nil {
			return handles, err
		}
		chunk := images[start:min(start+MaxMediaGroup, len(images))]

		if len(chunk) == 1 {
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(chunk[0]))
			photo.DisableNotification = opts.Silent
			msg, err := t.api.Send(photo)
			if err != nil {
				return handles, fmt.Errorf("send photo %s: %w", chunk[0], err)
			}
			handles = append(handles, handle(msg))
			continue
		}

		media := make([]interface{}, 0, len(chunk))
		for _, img := range chunk {
			media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FilePath(img)))
		}
		group := tgbotapi.NewMediaGroup(chatID, media)
		group.DisableNotification = opts.Silent
		msgs, err := t.api.SendMediaGroup(group)
		if err != nil {
			return handles, fmt.Errorf("send media group: %w", err)
		}
		for _, m := range msgs {
			handles = append(handles, handle(m))
		}
	}
	return handles, nil
}

// SendText sends an HTML message with an inline keyboard built from controls.
func (t *Transport) SendText(ctx context.Context, chatID int64, text domain.Text, controls []domain.Control, opts domain.SendOptions) (domain.MessageHandle, error) {
	if err := ctx.Err(); err != nil {
		return domain.MessageHandle{}, err
	}
	msg := tgbotapi.NewMessage(chatID, FormatText(text))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableNotification = opts.Silent
	if len(controls) > 0 {
		msg.ReplyMarkup = Keyboard(controls)
	}

	sent, err := t.api.Send(msg)
	if err != nil {
		return domain.MessageHandle{}, fmt.Errorf("send message: %w", err)
	}
	return handle(sent), nil
}

// SendAudio uploads an audio file.
func (t *Transport) SendAudio(ctx context.Context, chatID int64, asset string, opts domain.SendOptions) (domain.MessageHandle, error) {
	if err := ctx.Err(); err != nil {
		return domain.MessageHandle{}, err
	}
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(asset))
	audio.DisableNotification = opts.Silent

	sent, err := t.api.Send(audio)
	if err != nil {
		return domain.MessageHandle{}, fmt.Errorf("send audio %s: %w", asset, err)
	}
	return handle(sent), nil
}

// DeleteMessage removes a message. The Bot API answers with a bare boolean.
func (t *Transport) DeleteMessage(ctx context.Context, h domain.MessageHandle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(h.ChatID, h.MessageID)); err != nil {
		return fmt.Errorf("delete message %d: %w", h.MessageID, err)
	}
	return nil
}

// FormatText renders a Text as Bot API HTML: an emphasised title line, then the body.
func FormatText(text domain.Text) string {
	body := tgbotapi.EscapeText(tgbotapi.ModeHTML, strings.TrimSpace(text.Body))
	if text.Title == "" {
		return body
	}
	return "📍 <b>" + tgbotapi.EscapeText(tgbotapi.ModeHTML, text.Title) + "</b>\n\n" + body
}
