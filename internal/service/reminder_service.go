package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/notify"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/Freeeeeet/study_planner/internal/store"
	"github.com/Freeeeeet/study_planner/internal/timetable"
	"go.uber.org/zap"
)

const (
	ReminderTitle      = "Liceu Sumbe TimeTable"
	reminderBodyFormat = "A aula de %s começa em %d minutos!"
)

// DueReminder напоминание, которое должно сработать в эту минуту
type DueReminder struct {
	Slot     model.TimeSlot
	Reminder model.Reminder
}

// DueReminders отбирает слоты дня, у которых время срабатывания
// (начало минус MinutesBefore) совпадает с текущей минутой
func DueReminders(daily []model.TimeSlot, reminders []model.Reminder, now time.Time) []DueReminder {
	minute := now.Format(model.TimeLayout)

	var due []DueReminder
	for _, slot := range daily {
		reminder, ok := activeReminder(reminders, slot.ID)
		if !ok {
			continue
		}
		start, err := schedule.At(now, slot.StartTime)
		if err != nil {
			continue
		}
		trigger := start.Add(-time.Duration(reminder.MinutesBefore) * time.Minute)
		if trigger.Format(model.TimeLayout) == minute {
			due = append(due, DueReminder{Slot: slot, Reminder: reminder})
		}
	}
	return due
}

func activeReminder(reminders []model.Reminder, slotID string) (model.Reminder, bool) {
	for _, r := range reminders {
		if r.SlotID == slotID && r.Active {
			return r, true
		}
	}
	return model.Reminder{}, false
}

// ReminderBody текст уведомления о начале пары
func ReminderBody(subjectName string, minutesBefore int) string {
	return fmt.Sprintf(reminderBodyFormat, subjectName, minutesBefore)
}

// ReminderService проверяет напоминания и отправляет уведомления.
// Каждое напоминание срабатывает не больше одного раза в день.
type ReminderService struct {
	store    *store.StateStore
	notifier notify.Notifier
	logger   *zap.Logger

	mu        sync.Mutex
	firedDate string
	fired     map[string]struct{}
}

func NewReminderService(st *store.StateStore, notifier notify.Notifier, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		store:    st,
		notifier: notifier,
		logger:   logger,
		fired:    make(map[string]struct{}),
	}
}

// CheckReminders отправляет уведомления, которые приходятся на минуту now.
// Возвращает количество отправленных. Ошибки чтения состояния не прерывают
// работу планировщика: в этом случае ничего не отправляется.
func (s *ReminderService) CheckReminders(ctx context.Context, now time.Time) int {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		s.logger.Error("Failed to read state for reminders", zap.Error(err))
		return 0
	}

	daily := schedule.DailySchedule(Template(data), data.ScheduleOverrides, now)
	due := DueReminders(daily, data.Reminders, now)
	if len(due) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	date := now.Format(model.DateLayout)
	if s.firedDate != date {
		s.firedDate = date
		s.fired = make(map[string]struct{})
	}

	sent := 0
	for _, d := range due {
		key := firedKey(date, d.Reminder)
		if _, done := s.fired[key]; done {
			continue
		}

		body := ReminderBody(timetable.SubjectName(d.Slot.SubjectID, data.CustomSubjectDetails), d.Reminder.MinutesBefore)
		if err := s.notifier.Notify(ctx, ReminderTitle, body); err != nil {
			s.logger.Error("Failed to send reminder",
				zap.String("slot_id", d.Slot.ID),
				zap.Error(err))
			continue
		}

		s.fired[key] = struct{}{}
		sent++
		s.logger.Info("Reminder fired",
			zap.String("slot_id", d.Slot.ID),
			zap.String("subject_id", d.Slot.SubjectID),
			zap.Int("minutes_before", d.Reminder.MinutesBefore))
	}
	return sent
}

func firedKey(date string, r model.Reminder) string {
	return date + "|" + r.SlotID + "|" + strconv.Itoa(r.MinutesBefore)
}
