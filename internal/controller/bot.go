package controller

import (
	"context"
	"regexp"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/study_planner/internal/controller/handlers"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, cmdHandlers *handlers.Handlers, logger *zap.Logger) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// command совпадает с "/name", "/name args" и "/name@bot args"
func command(name string) *regexp.Regexp {
	return regexp.MustCompile(`^/` + name + `(@\w+)?(\s|$)`)
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	routes := []struct {
		name    string
		handler bot.HandlerFunc
	}{
		{"start", c.handlers.HandleStart},
		{"help", c.handlers.HandleHelp},
		{"now", c.handlers.HandleNow},
		{"today", c.handlers.HandleToday},
		{"week", c.handlers.HandleWeek},
		{"streak", c.handlers.HandleStreak},
		{"remind", c.handlers.HandleRemind},
		{"unremind", c.handlers.HandleUnremind},
		{"reminders", c.handlers.HandleReminders},
		{"override", c.handlers.HandleOverride},
		{"reset", c.handlers.HandleReset},
		{"absence", c.handlers.HandleAbsence},
		{"attendance", c.handlers.HandleAttendance},
		{"task", c.handlers.HandleTask},
		{"note", c.handlers.HandleNote},
		{"grade", c.handlers.HandleGrade},
		{"export", c.handlers.HandleExport},
	}
	for _, r := range routes {
		c.bot.RegisterHandlerRegexp(bot.HandlerTypeMessageText, command(r.name), r.handler)
	}

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "now", Description: "▶️ Aula atual e próxima"},
		{Command: "today", Description: "📅 Horário de hoje"},
		{Command: "week", Description: "🗓 Horário da semana"},
		{Command: "streak", Description: "🔥 Sequência de estudo"},
		{Command: "reminders", Description: "🔔 Lembretes ativos"},
		{Command: "attendance", Description: "📊 Assiduidade"},
		{Command: "export", Description: "💾 Backup dos dados"},
		{Command: "help", Description: "❓ Todos os comandos"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot")
	c.bot.Start(ctx)
}
