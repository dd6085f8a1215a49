package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cmdCheck  = "check"
	cmdStatus = "status"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	callback := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Send(callback); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	action, arg, ok := strings.Cut(cb.Data, ":")
	if !ok {
		return
	}

	attrs := []any{"action", action, "arg", arg, "chat_id", chatID}
	if cb.From != nil {
		attrs = append(attrs, "user_id", cb.From.ID, "username", cb.From.UserName)
	}
	b.log.Info("callback", attrs...)

	switch action {
	case cmdCheck:
		b.handleCheck(ctx, chatID, arg)
	case cmdStatus:
		b.handleStatus(ctx, chatID)
	}
}

func statusKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Check live", "check:live"),
			tgbotapi.NewInlineKeyboardButtonData("Check upcoming", "check:upcoming"),
		),
	)
}
