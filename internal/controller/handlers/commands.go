package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/study_planner/internal/formatting"
	"github.com/Freeeeeet/study_planner/internal/render"
	"github.com/Freeeeeet/study_planner/internal/service"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	if from := update.Message.From; from != nil && from.FirstName != "" {
		data, err := h.planner.Data(ctx)
		if err != nil {
			h.sendError(ctx, b, chatID, "start", err)
			return
		}
		if data.UserName == "" {
			if err := h.study.SetUserName(ctx, from.FirstName); err != nil {
				h.logger.Warn("Failed to save user name", zap.Error(err))
			}
		}
	}

	d, err := h.planner.Dashboard(ctx, h.clock())
	if err != nil {
		h.sendError(ctx, b, chatID, "start", err)
		return
	}
	h.sendMessage(ctx, b, chatID, FormatDashboard(d)+"\n\n/help - lista de comandos")
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleNow показывает текущую и следующую пару
func (h *Handlers) HandleNow(ctx context.Context, b *bot.Bot, update *models.Update) {
	d, err := h.planner.Dashboard(ctx, h.clock())
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "now", err)
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, FormatDashboard(d))
}

// HandleToday показывает расписание на сегодня или на ближайший указанный день
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	date := h.clock()
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		day, ok := dayFromName(args[0])
		if !ok {
			h.sendError(ctx, b, chatID, "today", usage("Dia desconhecido: %s", args[0]))
			return
		}
		date = nextOccurrence(date, day)
	}

	slots, err := h.planner.DaySchedule(ctx, date)
	if err != nil {
		h.sendError(ctx, b, chatID, "today", err)
		return
	}
	h.sendMessage(ctx, b, chatID, FormatDay(date, slots))
}

// HandleStreak показывает серию учебных дней
func (h *Handlers) HandleStreak(ctx context.Context, b *bot.Bot, update *models.Update) {
	days, err := h.study.Streak(ctx, h.clock())
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "streak", err)
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, FormatStreak(days))
}

// resolveSlot разбирает ссылку на пару относительно сегодняшнего расписания
func (h *Handlers) resolveSlot(ctx context.Context, ref string) (slotRef, error) {
	now := h.clock()
	today, err := h.planner.DaySchedule(ctx, now)
	if err != nil {
		return slotRef{}, err
	}
	return parseSlotRef(ref, today, now)
}

// HandleRemind /remind <aula> <min>
func (h *Handlers) HandleRemind(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) != 2 {
		h.sendError(ctx, b, chatID, "remind", usage("Uso: /remind <aula> <minutos>"))
		return
	}

	ref, err := h.resolveSlot(ctx, args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, "remind", err)
		return
	}
	minutes, err := parseMinutes(args[1])
	if err != nil {
		h.sendError(ctx, b, chatID, "remind", err)
		return
	}

	if err := h.planner.SaveReminder(ctx, ref.SlotID, minutes); err != nil {
		h.sendError(ctx, b, chatID, "remind", err)
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("🔔 Lembrete criado: %s, %s antes.",
		html.EscapeString(ref.SlotID), formatting.Minutes(minutes)))
}

// HandleUnremind /unremind <aula>
func (h *Handlers) HandleUnremind(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, "unremind", usage("Uso: /unremind <aula>"))
		return
	}

	ref, err := h.resolveSlot(ctx, args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, "unremind", err)
		return
	}

	removed, err := h.planner.RemoveReminder(ctx, ref.SlotID)
	if err != nil {
		h.sendError(ctx, b, chatID, "unremind", err)
		return
	}
	if !removed {
		h.sendMessage(ctx, b, chatID, "Não havia lembrete para esta aula.")
		return
	}
	h.sendMessage(ctx, b, chatID, "🔕 Lembrete removido.")
}

// HandleReminders список напоминаний
func (h *Handlers) HandleReminders(ctx context.Context, b *bot.Bot, update *models.Update) {
	reminders, err := h.planner.Reminders(ctx)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "reminders", err)
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, FormatReminders(reminders))
}

// HandleOverride /override <aula> <disciplina> [AAAA-MM-DD]
func (h *Handlers) HandleOverride(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) < 2 || len(args) > 3 {
		h.sendError(ctx, b, chatID, "override", usage("Uso: /override <aula> <disciplina> [AAAA-MM-DD]"))
		return
	}

	ref, err := h.resolveSlot(ctx, args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, "override", err)
		return
	}
	if len(args) == 3 {
		if ref.Date, err = parseDate(args[2], h.clock()); err != nil {
			h.sendError(ctx, b, chatID, "override", err)
			return
		}
	}

	subject := subjectCode(args[1])
	if err := h.planner.SetOverride(ctx, ref.Date, ref.SlotID, subject); err != nil {
		h.sendError(ctx, b, chatID, "override", err)
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("🔄 %s em %s: agora %s.",
		html.EscapeString(ref.SlotID), formatting.FormatDate(ref.Date), html.EscapeString(subject)))
}

// HandleReset /reset <aula> [AAAA-MM-DD]
func (h *Handlers) HandleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) < 1 || len(args) > 2 {
		h.sendError(ctx, b, chatID, "reset", usage("Uso: /reset <aula> [AAAA-MM-DD]"))
		return
	}

	ref, err := h.resolveSlot(ctx, args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, "reset", err)
		return
	}
	if len(args) == 2 {
		if ref.Date, err = parseDate(args[1], h.clock()); err != nil {
			h.sendError(ctx, b, chatID, "reset", err)
			return
		}
	}

	removed, err := h.planner.ResetOverride(ctx, ref.Date, ref.SlotID)
	if err != nil {
		h.sendError(ctx, b, chatID, "reset", err)
		return
	}
	if !removed {
		h.sendMessage(ctx, b, chatID, "Não havia substituição nesta data.")
		return
	}
	h.sendMessage(ctx, b, chatID, "↩️ Substituição desfeita.")
}

// HandleWeek отправляет картинку недели и таблицу Excel
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	now := h.clock()

	data, err := h.planner.Data(ctx)
	if err != nil {
		h.sendError(ctx, b, chatID, "week", err)
		return
	}

	imageData, err := render.WeekImage(data, now, now)
	if err != nil {
		h.sendError(ctx, b, chatID, "week", err)
		return
	}

	caption := fmt.Sprintf("🗓 Semana de %s", formatting.FormatDate(formatting.WeekStart(now)))
	if _, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    chatID,
		Photo:     &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	}); err != nil {
		h.logger.Error("Failed to send week image", zap.Error(err))
	}

	workbook, err := render.WeekWorkbook(data, now)
	if err != nil {
		h.sendError(ctx, b, chatID, "week", err)
		return
	}
	h.sendFile(ctx, b, chatID, "horario.xlsx", workbook, "")
}

// HandleAbsence /absence <disciplina> [+n|-n]
func (h *Handlers) HandleAbsence(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) < 1 || len(args) > 2 {
		h.sendError(ctx, b, chatID, "absence", usage("Uso: /absence <disciplina> [+n|-n]"))
		return
	}

	delta := 1
	if len(args) == 2 {
		n, err := parseMinutes(strings.TrimPrefix(args[1], "+"))
		if err != nil {
			h.sendError(ctx, b, chatID, "absence", usage("Quantidade inválida: %s", args[1]))
			return
		}
		delta = n
	}

	record, err := h.study.AddAbsence(ctx, subjectCode(args[0]), delta)
	if err != nil {
		h.sendError(ctx, b, chatID, "absence", err)
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("📋 %s: %d/%d faltas", html.EscapeString(record.SubjectID), record.Absent, record.MaxAbsences))
}

// HandleAttendance сводка посещаемости
func (h *Handlers) HandleAttendance(ctx context.Context, b *bot.Bot, update *models.Update) {
	summary, err := h.study.AttendanceSummary(ctx)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "attendance", err)
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, FormatAttendance(summary))
}

// restAfter текст команды после n аргументов
func restAfter(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n+1 {
		return ""
	}
	return strings.Join(fields[n+1:], " ")
}

// HandleTask /task <disciplina> <título>
func (h *Handlers) HandleTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) < 2 {
		h.sendError(ctx, b, chatID, "task", usage("Uso: /task <disciplina> <título>"))
		return
	}

	now := h.clock()
	task, err := h.study.AddTask(ctx, service.NewTask{
		SubjectID: subjectCode(args[0]),
		Title:     restAfter(update.Message.Text, 1),
		DueDate:   now,
	}, now)
	if err != nil {
		h.sendError(ctx, b, chatID, "task", err)
		return
	}
	h.sendMessage(ctx, b, chatID, "✅ Tarefa criada: "+html.EscapeString(task.Title))
}

// HandleNote /note <disciplina> <texto>
func (h *Handlers) HandleNote(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) < 2 {
		h.sendError(ctx, b, chatID, "note", usage("Uso: /note <disciplina> <texto>"))
		return
	}

	note, err := h.study.AddNote(ctx, subjectCode(args[0]), restAfter(update.Message.Text, 1), h.clock())
	if err != nil {
		h.sendError(ctx, b, chatID, "note", err)
		return
	}
	h.sendMessage(ctx, b, chatID, "🗒 "+html.EscapeString(note.Content))
}

// HandleGrade /grade <disciplina> <valor> <nome>
func (h *Handlers) HandleGrade(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) < 3 {
		h.sendError(ctx, b, chatID, "grade", usage("Uso: /grade <disciplina> <valor> <nome>"))
		return
	}

	value, err := parseGrade(args[1])
	if err != nil {
		h.sendError(ctx, b, chatID, "grade", err)
		return
	}

	grade, err := h.study.AddGrade(ctx, subjectCode(args[0]), restAfter(update.Message.Text, 2), value, h.clock())
	if err != nil {
		h.sendError(ctx, b, chatID, "grade", err)
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("🎯 %s: %.1f", html.EscapeString(grade.Name), grade.Value))
}

// HandleExport отправляет резервную копию документом
func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	raw, err := h.study.Export(ctx)
	if err != nil {
		h.sendError(ctx, b, chatID, "export", err)
		return
	}

	filename := fmt.Sprintf("liceu-sumbe-backup-%s.json", h.clock().Format("2006-01-02"))
	h.sendFile(ctx, b, chatID, filename, raw, "💾 Backup dos dados")
}
