package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// OnlyChat пропускает к обработчикам только сообщения из настроенного чата
func OnlyChat(chatID int64, logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				return
			}
			if update.Message.Chat.ID != chatID {
				logger.Warn("Ignoring message from foreign chat",
					zap.Int64("chat_id", update.Message.Chat.ID))
				return
			}
			next(ctx, b, update)
		}
	}
}
