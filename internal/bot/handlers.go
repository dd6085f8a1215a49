package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"show_notifier/internal/model"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, fmt.Sprintf(`Welcome to Show Notifier!

I watch the Whatnot seller %s and post:
- a live alert when a stream starts
- a digest of newly scheduled shows

Use /help for the full command reference.`, b.cfg.Username))
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Commands:
/status — current state and last check times
/history [n] — last n notifications (1-50, default 10)
/check [live|upcoming] — run checks now (both when omitted)
/help — this message`)
}

func (b *Bot) handleStatus(ctx context.Context, chatID int64) {
	if b.monitor == nil {
		b.reply(chatID, "Scheduler is not running.")
		return
	}

	var sent SentCounts
	var err error
	if sent.Live, err = b.store.CountNotifications(ctx, model.CheckLive); err != nil {
		b.log.Error("count live notifications", "error", err)
	}
	if sent.Upcoming, err = b.store.CountNotifications(ctx, model.CheckUpcoming); err != nil {
		b.log.Error("count upcoming notifications", "error", err)
	}

	msg := tgbotapi.NewMessage(chatID, FormatStatus(b.cfg.Username, b.monitor.Snapshot(), sent))
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = statusKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send status", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleHistory(ctx context.Context, chatID int64, args string) {
	n, err := ParseHistoryArgs(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Usage: /history [n]\n%v", err))
		return
	}

	items, err := b.store.RecentNotifications(ctx, n)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatHistory(items))
}

func (b *Bot) handleCheck(ctx context.Context, chatID int64, args string) {
	kind, err := ParseCheckArg(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Usage: /check [live|upcoming]\n%v", err))
		return
	}
	if b.monitor == nil {
		b.reply(chatID, "Scheduler is not running.")
		return
	}

	if err := b.monitor.CheckNow(ctx, kind); err != nil {
		b.reply(chatID, fmt.Sprintf("Check failed: %v", err))
		return
	}

	label := "Live and upcoming"
	switch kind {
	case model.CheckLive:
		label = "Live"
	case model.CheckUpcoming:
		label = "Upcoming"
	}
	b.reply(chatID, label+" check finished.")
}
