package handlers

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/study_planner/internal/service"
	"github.com/Freeeeeet/study_planner/internal/store"
)

// sendMessage отправляет HTML-сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendError логирует ошибку сервиса и отвечает пользователю понятным текстом
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, op string, err error) {
	h.logger.Error("Command failed", zap.String("op", op), zap.Error(err))
	h.sendMessage(ctx, b, chatID, "❌ "+ErrorMessage(err))
}

// sendFile отправляет файл документом
func (h *Handlers) sendFile(ctx context.Context, b *bot.Bot, chatID int64, filename string, data []byte, caption string) {
	_, err := b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:    chatID,
		Document:  &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send document",
			zap.Int64("chat_id", chatID),
			zap.String("filename", filename),
			zap.Error(err))
	}
}

// ErrorMessage текст ошибки для пользователя
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrUnknownSlot):
		return "Aula não encontrada no horário. Veja /today para os números das aulas."
	case errors.Is(err, service.ErrSlotNotOnDate):
		return "Esta aula não acontece nesse dia da semana. Indique a aula como seg-19:00 ou escolha outra data."
	case errors.Is(err, service.ErrUnknownSubject):
		return "Disciplina desconhecida. Use o código, por exemplo MAT ou GEO."
	case errors.Is(err, service.ErrUnknownClass):
		return "Turma desconhecida."
	case errors.Is(err, service.ErrInvalidMinutes):
		return "O lembrete deve ser entre 1 e 1440 minutos."
	case errors.Is(err, service.ErrInvalidGrade):
		return "A nota deve ser entre 0 e 20 valores."
	case errors.Is(err, service.ErrEmptyText):
		return "O texto não pode estar vazio."
	case errors.Is(err, service.ErrTaskNotFound):
		return "Tarefa não encontrada."
	case errors.Is(err, store.ErrInvalidBackup):
		return "Arquivo de backup inválido."
	case errors.Is(err, errUsage):
		return strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
	default:
		return "Ocorreu um erro. Tente novamente mais tarde."
	}
}
