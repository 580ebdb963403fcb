package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aretw0/excursion/pkg/dispatch"
)

// ToInteraction converts an update. It reports false for updates the bot ignores.
func ToInteraction(upd tgbotapi.Update) (dispatch.Interaction, bool) {
	switch {
	case upd.CallbackQuery != nil && upd.CallbackQuery.From != nil:
		q := upd.CallbackQuery
		in := interaction(q.From)
		in.ChatID = q.From.ID
		if q.Message != nil && q.Message.Chat != nil {
			in.ChatID = q.Message.Chat.ID
		}
		in.Payload = q.Data
		return in, in.Payload != ""

	case upd.Message != nil && upd.Message.From != nil && upd.Message.Chat != nil:
		m := upd.Message
		in := interaction(m.From)
		in.ChatID = m.Chat.ID
		if m.IsCommand() {
			in.Command = m.Command()
			return in, in.Command != ""
		}
		in.Text = m.Text
		return in, in.Text != ""

	default:
		return dispatch.Interaction{}, false
	}
}

func interaction(u *tgbotapi.User) dispatch.Interaction {
	return dispatch.Interaction{
		UserID:    u.ID,
		FirstName: u.FirstName,
		UserName:  u.UserName,
	}
}
