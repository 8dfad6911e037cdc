package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/service"
)

type countingChecker struct {
	calls atomic.Int32
}

func (c *countingChecker) CheckReminders(_ context.Context, _ time.Time) int {
	c.calls.Add(1)
	return 0
}

type fixedStatus struct {
	mu sync.Mutex
	d  *service.Dashboard
}

func (f *fixedStatus) Dashboard(_ context.Context, _ time.Time) (*service.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.d, nil
}

func (f *fixedStatus) set(d *service.Dashboard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.d = d
}

func TestSchedulerChecksRemindersUntilStopped(t *testing.T) {
	checker := &countingChecker{}
	s := NewScheduler(checker, nil, SchedulerConfig{ReminderInterval: 5 * time.Millisecond}, zap.NewNop())

	s.Start(context.Background())
	require.Eventually(t, func() bool { return checker.calls.Load() >= 3 }, time.Second, time.Millisecond)

	s.Stop()
	s.Stop()
	after := checker.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, checker.calls.Load())
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	checker := &countingChecker{}
	s := NewScheduler(checker, nil, SchedulerConfig{ReminderInterval: 5 * time.Millisecond}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestSchedulerLogsStatusOnlyOnChange(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	lit := &service.SlotView{TimeSlot: model.NewTimeSlot(model.Monday, "19:00", "19:45", "LIT")}
	status := &fixedStatus{d: &service.Dashboard{Current: lit}}

	s := NewScheduler(&countingChecker{}, status, SchedulerConfig{}, zap.New(core))

	s.refreshStatus(context.Background())
	s.refreshStatus(context.Background())
	status.set(&service.Dashboard{})
	s.refreshStatus(context.Background())

	assert.Equal(t, 2, logs.FilterMessage("Schedule status changed").Len())
}
