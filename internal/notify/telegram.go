package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageSender часть *bot.Bot, нужная для отправки сообщений
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier отправляет уведомления в чат Telegram
type TelegramNotifier struct {
	sender MessageSender
	chatID int64
}

// NewTelegramNotifier создаёт уведомитель для указанного чата
func NewTelegramNotifier(sender MessageSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID}
}

// Notify отправляет сообщение "<b>title</b>\nbody"
func (t *TelegramNotifier) Notify(ctx context.Context, title, body string) error {
	if t.sender == nil || t.chatID == 0 {
		return ErrUnavailable
	}

	_, err := t.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    t.chatID,
		Text:      fmt.Sprintf("🔔 <b>%s</b>\n%s", html.EscapeString(title), html.EscapeString(body)),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send telegram notification: %w", err)
	}
	return nil
}
