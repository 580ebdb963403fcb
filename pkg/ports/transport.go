package ports

import (
	"context"

	"github.com/aretw0/excursion/pkg/domain"
)

// MessageTransport delivers messages to a chat and removes them again.
type MessageTransport interface {
	// SendMediaGroup sends images as one grouped message.
	// It may return the handles of the parts delivered before a failure together with the error.
	SendMediaGroup(ctx context.Context, chatID int64, images []string, opts domain.SendOptions) ([]domain.MessageHandle, error)

	// SendText sends a text message with its controls attached.
	SendText(ctx context.Context, chatID int64, text domain.Text, controls []domain.Control, opts domain.SendOptions) (domain.MessageHandle, error)

	// SendAudio sends an audio file.
	SendAudio(ctx context.Context, chatID int64, asset string, opts domain.SendOptions) (domain.MessageHandle, error)

	// DeleteMessage removes a previously delivered message.
	DeleteMessage(ctx context.Context, handle domain.MessageHandle) error
}
