package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aretw0/excursion/pkg/domain"
)

// Keyboard lays out one button per row, in control order.
func Keyboard(controls []domain.Control) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(controls))
	for _, c := range controls {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Label, c.Payload),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
