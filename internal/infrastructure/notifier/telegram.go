package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"pricewatch/internal/domain/entity"
	"pricewatch/pkg/logx"
)

// Telegram mirrors the alert message into a Telegram chat.
type Telegram struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegram(token string, chatID int64, opts ...telego.BotOption) (*Telegram, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Telegram{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *Telegram) Notify(ctx context.Context, alerts []entity.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	msg := tu.Message(
		tu.ID(t.chatID),
		Text(alerts),
	).WithParseMode(telego.ModeHTML)

	if _, err := t.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", logx.MaskError(err))
	}

	logger(ctx).Info("telegram mirror sent", slog.Int(logx.FieldCount, len(alerts)))

	return nil
}

// Text renders alerts as a Telegram HTML message.
func Text(alerts []entity.Alert) string {
	p := newPrinter()

	var sb strings.Builder

	sb.WriteString("📉 <b>" + alertTitle + "</b>")

	for _, a := range alerts {
		fmt.Fprintf(&sb,
			"\n\n• <b>%s - (%s) - %s</b>\nPrice: <b>%s</b> (Threshold: %s)\n🔗 <a href=\"%s\">Link</a>",
			html.EscapeString(a.Listing.Name),
			html.EscapeString(a.Listing.Code),
			html.EscapeString(a.Listing.Condition),
			yen(p, a.Price),
			yen(p, a.Listing.Threshold),
			html.EscapeString(a.Listing.URL),
		)
	}

	return sb.String()
}
