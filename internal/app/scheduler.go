package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/study_planner/internal/service"
)

// ReminderChecker проверяет напоминания на минуту now
type ReminderChecker interface {
	CheckReminders(ctx context.Context, now time.Time) int
}

// StatusSource источник сводки для строки статуса
type StatusSource interface {
	Dashboard(ctx context.Context, now time.Time) (*service.Dashboard, error)
}

// SchedulerConfig интервалы фоновых задач.
// Нулевой ClockInterval отключает строку статуса.
type SchedulerConfig struct {
	ReminderInterval time.Duration
	ClockInterval    time.Duration
	Location         *time.Location
}

// Scheduler управляет фоновыми задачами: проверкой напоминаний и строкой статуса
type Scheduler struct {
	reminders ReminderChecker
	status    StatusSource
	cfg       SchedulerConfig
	now       func() time.Time
	logger    *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	lastStatus string
}

// NewScheduler создаёт новый планировщик. status может быть nil.
func NewScheduler(reminders ReminderChecker, status StatusSource, cfg SchedulerConfig, logger *zap.Logger) *Scheduler {
	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Scheduler{
		reminders: reminders,
		status:    status,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("reminder_interval", s.cfg.ReminderInterval),
		zap.Duration("clock_interval", s.cfg.ClockInterval))

	s.wg.Add(1)
	go s.runReminderTask(ctx)

	if s.status != nil && s.cfg.ClockInterval > 0 {
		s.wg.Add(1)
		go s.runClockTask(ctx)
	}
}

// Stop останавливает фоновые задачи и ждёт их завершения. Повторный вызов безопасен.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runReminderTask раз в ReminderInterval сверяет время с напоминаниями
func (s *Scheduler) runReminderTask(ctx context.Context) {
	defer s.wg.Done()

	// Первая проверка сразу при старте
	s.checkReminders(ctx)

	ticker := time.NewTicker(s.cfg.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.checkReminders(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

func (s *Scheduler) checkReminders(ctx context.Context) {
	if sent := s.reminders.CheckReminders(ctx, s.now().In(s.cfg.Location)); sent > 0 {
		s.logger.Debug("Reminders sent", zap.Int("count", sent))
	}
}

// runClockTask обновляет строку статуса текущей и следующей пары
func (s *Scheduler) runClockTask(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.ClockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refreshStatus(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// refreshStatus пишет в лог, только когда текущая или следующая пара сменилась
func (s *Scheduler) refreshStatus(ctx context.Context) {
	d, err := s.status.Dashboard(ctx, s.now().In(s.cfg.Location))
	if err != nil {
		s.logger.Warn("Failed to build status", zap.Error(err))
		return
	}

	current, next := "", ""
	if d.Current != nil {
		current = d.Current.ID + " " + d.Current.Subject.Name
	}
	if d.Next != nil {
		next = d.Next.ID + " " + d.Next.Subject.Name
	}

	key := current + "|" + next
	if key == s.lastStatus {
		return
	}
	s.lastStatus = key

	s.logger.Info("Schedule status changed",
		zap.String("current", current),
		zap.String("time_left", d.TimeLeft),
		zap.String("next", next))
}
