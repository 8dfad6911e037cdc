package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/Freeeeeet/study_planner/internal/store"
	"github.com/Freeeeeet/study_planner/internal/streak"
	"github.com/Freeeeeet/study_planner/internal/timetable"
	"go.uber.org/zap"
)

// Workload оценка нагрузки по числу невыполненных заданий
type Workload string

const (
	WorkloadLight    Workload = "Leve"
	WorkloadModerate Workload = "Moderada"
	WorkloadHeavy    Workload = "Pesada"
)

// WorkloadFor >5 заданий умеренная нагрузка, >10 тяжёлая
func WorkloadFor(pending int) Workload {
	switch {
	case pending > 10:
		return WorkloadHeavy
	case pending > 5:
		return WorkloadModerate
	default:
		return WorkloadLight
	}
}

// SlotView слот фактического расписания с данными для отображения
type SlotView struct {
	model.TimeSlot
	Subject    model.Subject
	Overridden bool
	Reminder   *model.Reminder
}

// Dashboard сводка на текущий момент
type Dashboard struct {
	Now          time.Time
	Day          model.DayOfWeek
	UserName     string
	ClassID      string
	Current      *SlotView
	Next         *SlotView
	TimeLeft     string
	Progress     int
	Today        []SlotView
	Streak       int
	YearProgress int
	PendingTasks int
	Workload     Workload
}

// PlannerService расписание класса, замены и напоминания
type PlannerService struct {
	store  *store.StateStore
	logger *zap.Logger
}

func NewPlannerService(st *store.StateStore, logger *zap.Logger) *PlannerService {
	return &PlannerService{
		store:  st,
		logger: logger,
	}
}

// Data копия документа для отображения и выгрузок
func (s *PlannerService) Data(ctx context.Context) (*model.AppData, error) {
	return s.store.Snapshot(ctx)
}

// Template шаблон расписания выбранного класса
func Template(data *model.AppData) []model.TimeSlot {
	return timetable.ScheduleForClass(data.SelectedClassID)
}

// SelectClass переключает класс, шаблон которого используется
func (s *PlannerService) SelectClass(ctx context.Context, classID string) error {
	if !timetable.HasClass(classID) {
		return fmt.Errorf("%w: %s", ErrUnknownClass, classID)
	}

	err := s.store.Update(ctx, func(data *model.AppData) error {
		data.SelectedClassID = classID
		return nil
	})
	if err != nil {
		return fmt.Errorf("select class: %w", err)
	}

	s.logger.Info("Class selected", zap.String("class_id", classID))
	return nil
}

// SetOverride сохраняет замену предмета в слоте на дату.
// Замены различаются по паре (дата, слот): замена на другую дату не удаляется.
func (s *PlannerService) SetOverride(ctx context.Context, date time.Time, slotID, subjectID string) error {
	dateStr := date.Format(model.DateLayout)

	err := s.store.Update(ctx, func(data *model.AppData) error {
		slot, ok := timetable.FindSlot(Template(data), slotID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSlot, slotID)
		}
		if day := schedule.DayOfWeekOf(date); slot.Day != day {
			return fmt.Errorf("%w: %s on %s (%s)", ErrSlotNotOnDate, slotID, dateStr, day)
		}
		if _, ok := timetable.Subject(subjectID, data.CustomSubjectDetails); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSubject, subjectID)
		}

		kept := data.ScheduleOverrides[:0]
		for _, o := range data.ScheduleOverrides {
			if !o.Matches(dateStr, slotID) {
				kept = append(kept, o)
			}
		}
		data.ScheduleOverrides = append(kept, model.ScheduleOverride{
			Date:         dateStr,
			SlotID:       slotID,
			NewSubjectID: subjectID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("set override: %w", err)
	}

	s.logger.Info("Schedule override saved",
		zap.String("date", dateStr),
		zap.String("slot_id", slotID),
		zap.String("subject_id", subjectID))
	return nil
}

// ResetOverride убирает замену на дату. Возвращает false, если её не было.
// Слот, который в этот день недели не проходит, отклоняется, если замены нет.
func (s *PlannerService) ResetOverride(ctx context.Context, date time.Time, slotID string) (bool, error) {
	dateStr := date.Format(model.DateLayout)
	removed := false

	err := s.store.Update(ctx, func(data *model.AppData) error {
		kept := data.ScheduleOverrides[:0]
		for _, o := range data.ScheduleOverrides {
			if o.Matches(dateStr, slotID) {
				removed = true
				continue
			}
			kept = append(kept, o)
		}
		data.ScheduleOverrides = kept

		if !removed {
			if slot, ok := timetable.FindSlot(Template(data), slotID); ok && slot.Day != schedule.DayOfWeekOf(date) {
				return fmt.Errorf("%w: %s on %s", ErrSlotNotOnDate, slotID, dateStr)
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("reset override: %w", err)
	}

	if removed {
		s.logger.Info("Schedule override reset",
			zap.String("date", dateStr),
			zap.String("slot_id", slotID))
	}
	return removed, nil
}

// Overrides все сохранённые замены
func (s *PlannerService) Overrides(ctx context.Context) ([]model.ScheduleOverride, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return data.ScheduleOverrides, nil
}

// SaveReminder включает напоминание за minutesBefore минут до начала слота.
// Предыдущее напоминание для этого слота заменяется.
func (s *PlannerService) SaveReminder(ctx context.Context, slotID string, minutesBefore int) error {
	if minutesBefore < 1 || minutesBefore > 24*60 {
		return ErrInvalidMinutes
	}

	err := s.store.Update(ctx, func(data *model.AppData) error {
		if _, ok := timetable.FindSlot(Template(data), slotID); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSlot, slotID)
		}
		data.Reminders = append(withoutReminder(data.Reminders, slotID), model.Reminder{
			SlotID:        slotID,
			MinutesBefore: minutesBefore,
			Active:        true,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save reminder: %w", err)
	}

	s.logger.Info("Reminder saved",
		zap.String("slot_id", slotID),
		zap.Int("minutes_before", minutesBefore))
	return nil
}

// DisableReminder выключает напоминание, сохраняя выбранное время
func (s *PlannerService) DisableReminder(ctx context.Context, slotID string) error {
	disabled := false
	err := s.store.Update(ctx, func(data *model.AppData) error {
		for i := range data.Reminders {
			if data.Reminders[i].SlotID == slotID && data.Reminders[i].Active {
				data.Reminders[i].Active = false
				disabled = true
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("disable reminder: %w", err)
	}

	if disabled {
		s.logger.Info("Reminder disabled", zap.String("slot_id", slotID))
	}
	return nil
}

// RemoveReminder удаляет напоминание слота. false, если его не было.
func (s *PlannerService) RemoveReminder(ctx context.Context, slotID string) (bool, error) {
	removed := false
	err := s.store.Update(ctx, func(data *model.AppData) error {
		before := len(data.Reminders)
		data.Reminders = withoutReminder(data.Reminders, slotID)
		removed = len(data.Reminders) != before
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("remove reminder: %w", err)
	}

	if removed {
		s.logger.Info("Reminder removed", zap.String("slot_id", slotID))
	}
	return removed, nil
}

// Reminders все напоминания
func (s *PlannerService) Reminders(ctx context.Context) ([]model.Reminder, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return data.Reminders, nil
}

func withoutReminder(reminders []model.Reminder, slotID string) []model.Reminder {
	kept := reminders[:0]
	for _, r := range reminders {
		if r.SlotID != slotID {
			kept = append(kept, r)
		}
	}
	return kept
}

// DaySchedule фактическое расписание на дату с предметами и напоминаниями
func (s *PlannerService) DaySchedule(ctx context.Context, date time.Time) ([]SlotView, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return dayViews(data, date), nil
}

// Dashboard сводка для главного экрана на момент now
func (s *PlannerService) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	today := dayViews(data, now)
	daily := make([]model.TimeSlot, len(today))
	for i, v := range today {
		daily[i] = v.TimeSlot
	}

	d := &Dashboard{
		Now:          now,
		Day:          schedule.DayOfWeekOf(now),
		UserName:     data.UserName,
		ClassID:      data.SelectedClassID,
		Today:        today,
		Streak:       streak.Calculate(data.StudyActivityDates, now),
		YearProgress: schedule.SchoolYearProgress(now, timetable.SchoolStartDate, timetable.SchoolEndDate),
		PendingTasks: data.PendingTasks(),
	}
	d.Workload = WorkloadFor(d.PendingTasks)

	if cur, ok := schedule.CurrentIn(daily, now); ok {
		d.Current = findView(today, cur.ID)
		d.TimeLeft = schedule.TimeLeft(cur.EndTime, now)
		d.Progress = schedule.SlotProgress(cur, now)
	}
	if next, ok := schedule.NextIn(daily, now); ok {
		d.Next = findView(today, next.ID)
	}

	return d, nil
}

func dayViews(data *model.AppData, date time.Time) []SlotView {
	daily := schedule.DailySchedule(Template(data), data.ScheduleOverrides, date)
	dateStr := date.Format(model.DateLayout)

	views := make([]SlotView, 0, len(daily))
	for _, slot := range daily {
		view := SlotView{TimeSlot: slot}
		if subject, ok := timetable.Subject(slot.SubjectID, data.CustomSubjectDetails); ok {
			view.Subject = subject
		} else {
			view.Subject = model.Subject{ID: slot.SubjectID, Name: slot.SubjectID, ShortName: slot.SubjectID}
		}
		view.Overridden = hasOverride(data.ScheduleOverrides, dateStr, slot.ID)
		if r, ok := data.ActiveReminder(slot.ID); ok {
			view.Reminder = &r
		}
		views = append(views, view)
	}
	return views
}

func hasOverride(overrides []model.ScheduleOverride, date, slotID string) bool {
	for _, o := range overrides {
		if o.Matches(date, slotID) {
			return true
		}
	}
	return false
}

func findView(views []SlotView, slotID string) *SlotView {
	for i := range views {
		if views[i].ID == slotID {
			v := views[i]
			return &v
		}
	}
	return nil
}
