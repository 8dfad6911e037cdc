package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/store"
)

// ── Mock Backend ──

type memoryBackend struct {
	mu      sync.Mutex
	doc     []byte
	loadErr error
}

func (m *memoryBackend) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.doc, nil
}

func (m *memoryBackend) Save(_ context.Context, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = append([]byte(nil), doc...)
	return nil
}

func newTestStore() (*store.StateStore, *memoryBackend) {
	backend := &memoryBackend{}
	return store.NewStateStore(backend, zap.NewNop()), backend
}

// 2025-01-06 понедельник
func monday(hh, mm int) time.Time {
	return time.Date(2025, time.January, 6, hh, mm, 0, 0, time.UTC)
}

var (
	mondayLit = model.SlotID(model.Monday, "19:00")
	mondayGeo = model.SlotID(model.Monday, "21:30")
)

func TestSelectClass(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.SelectClass(ctx, "11-CH"))
	assert.ErrorIs(t, svc.SelectClass(ctx, "99-XX"), ErrUnknownClass)

	data, err := st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "11-CH", data.SelectedClassID)
}

func TestSetOverrideIsKeyedByDateAndSlot(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())
	ctx := context.Background()
	nextMonday := monday(12, 0).AddDate(0, 0, 7)

	require.NoError(t, svc.SetOverride(ctx, monday(12, 0), mondayLit, "MAT"))
	require.NoError(t, svc.SetOverride(ctx, nextMonday, mondayLit, "HIS"))
	require.NoError(t, svc.SetOverride(ctx, monday(12, 0), mondayLit, "FIL"))

	overrides, err := svc.Overrides(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.ScheduleOverride{
		{Date: "2025-01-13", SlotID: mondayLit, NewSubjectID: "HIS"},
		{Date: "2025-01-06", SlotID: mondayLit, NewSubjectID: "FIL"},
	}, overrides)
}

func TestSetOverrideValidation(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetOverride(ctx, monday(12, 0), "nope", "MAT"), ErrUnknownSlot)
	assert.ErrorIs(t, svc.SetOverride(ctx, monday(12, 0), mondayLit, "NOPE"), ErrUnknownSubject)
	// слот понедельника на вторник
	assert.ErrorIs(t, svc.SetOverride(ctx, monday(12, 0).AddDate(0, 0, 1), mondayLit, "MAT"), ErrSlotNotOnDate)

	_, err := svc.ResetOverride(ctx, monday(12, 0).AddDate(0, 0, 1), mondayLit)
	assert.ErrorIs(t, err, ErrSlotNotOnDate)

	overrides, err := svc.Overrides(ctx)
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestOverrideWithTemplateSubjectIsMarked(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.SetOverride(ctx, monday(12, 0), mondayLit, "LIT"))

	slots, err := svc.DaySchedule(ctx, monday(12, 0))
	require.NoError(t, err)
	view := findView(slots, mondayLit)
	require.NotNil(t, view)
	assert.Equal(t, "LIT", view.SubjectID)
	assert.True(t, view.Overridden)

	nextWeek, err := svc.DaySchedule(ctx, monday(12, 0).AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.False(t, findView(nextWeek, mondayLit).Overridden)
}

func TestResetOverride(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.SetOverride(ctx, monday(12, 0), mondayLit, "MAT"))

	removed, err := svc.ResetOverride(ctx, monday(8, 0), mondayLit)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.ResetOverride(ctx, monday(8, 0), mondayLit)
	require.NoError(t, err)
	assert.False(t, removed)

	slots, err := svc.DaySchedule(ctx, monday(12, 0))
	require.NoError(t, err)
	for _, s := range slots {
		assert.False(t, s.Overridden, s.ID)
	}
}

func TestSaveReminderReplacesPrevious(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.SaveReminder(ctx, mondayLit, 10))
	require.NoError(t, svc.DisableReminder(ctx, mondayLit))
	require.NoError(t, svc.SaveReminder(ctx, mondayLit, 15))

	reminders, err := svc.Reminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Reminder{{SlotID: mondayLit, MinutesBefore: 15, Active: true}}, reminders)
}

func TestSaveReminderValidation(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, svc.SaveReminder(ctx, mondayLit, 0), ErrInvalidMinutes)
	assert.ErrorIs(t, svc.SaveReminder(ctx, mondayLit, 1441), ErrInvalidMinutes)
	assert.ErrorIs(t, svc.SaveReminder(ctx, "nope", 10), ErrUnknownSlot)
}

func TestDisableReminderWrapsStoreError(t *testing.T) {
	st, backend := newTestStore()
	backend.loadErr = errors.New("db down")

	err := NewPlannerService(st, zap.NewNop()).DisableReminder(context.Background(), mondayLit)
	assert.ErrorContains(t, err, "disable reminder")
	assert.ErrorIs(t, err, backend.loadErr)
}

func TestDisableAndRemoveReminder(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.SaveReminder(ctx, mondayLit, 10))
	require.NoError(t, svc.DisableReminder(ctx, mondayLit))

	slots, err := svc.DaySchedule(ctx, monday(12, 0))
	require.NoError(t, err)
	for _, s := range slots {
		assert.Nil(t, s.Reminder)
	}

	removed, err := svc.RemoveReminder(ctx, mondayLit)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveReminder(ctx, mondayLit)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDayScheduleViews(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.SetOverride(ctx, monday(12, 0), mondayGeo, "MAT"))
	require.NoError(t, svc.SaveReminder(ctx, mondayLit, 10))

	slots, err := svc.DaySchedule(ctx, monday(12, 0))
	require.NoError(t, err)
	require.Len(t, slots, 7)
	assert.Equal(t, "07:00", slots[0].StartTime)

	for _, s := range slots {
		switch s.ID {
		case mondayGeo:
			assert.True(t, s.Overridden)
			assert.Equal(t, "Matemática", s.Subject.Name)
		case mondayLit:
			require.NotNil(t, s.Reminder)
			assert.Equal(t, 10, s.Reminder.MinutesBefore)
		default:
			assert.False(t, s.Overridden)
			assert.Nil(t, s.Reminder)
		}
	}

	sunday, err := svc.DaySchedule(ctx, monday(12, 0).AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, sunday)
}

func TestDashboard(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, st.Update(ctx, func(data *model.AppData) error {
		data.StudyActivityDates = []string{"2025-01-05", "2025-01-06"}
		for i := 0; i < 7; i++ {
			data.Tasks = append(data.Tasks, model.Task{ID: string(rune('a' + i))})
		}
		return nil
	}))

	d, err := svc.Dashboard(ctx, monday(19, 15))
	require.NoError(t, err)

	require.NotNil(t, d.Current)
	assert.Equal(t, mondayLit, d.Current.ID)
	assert.Equal(t, "30m", d.TimeLeft)
	assert.Equal(t, 33, d.Progress)
	require.NotNil(t, d.Next)
	assert.Equal(t, "19:50", d.Next.StartTime)
	assert.Equal(t, model.Monday, d.Day)
	assert.Equal(t, 2, d.Streak)
	assert.Equal(t, 7, d.PendingTasks)
	assert.Equal(t, WorkloadModerate, d.Workload)
	assert.Len(t, d.Today, 7)
}

func TestDashboardBetweenClasses(t *testing.T) {
	st, _ := newTestStore()
	svc := NewPlannerService(st, zap.NewNop())

	d, err := svc.Dashboard(context.Background(), monday(23, 30))
	require.NoError(t, err)
	assert.Nil(t, d.Current)
	assert.Nil(t, d.Next)
	assert.Empty(t, d.TimeLeft)
}

func TestDashboardPropagatesStoreError(t *testing.T) {
	st, backend := newTestStore()
	backend.loadErr = errors.New("db down")

	_, err := NewPlannerService(st, zap.NewNop()).Dashboard(context.Background(), monday(12, 0))
	assert.Error(t, err)
}

func TestWorkloadFor(t *testing.T) {
	assert.Equal(t, WorkloadLight, WorkloadFor(0))
	assert.Equal(t, WorkloadLight, WorkloadFor(5))
	assert.Equal(t, WorkloadModerate, WorkloadFor(6))
	assert.Equal(t, WorkloadModerate, WorkloadFor(10))
	assert.Equal(t, WorkloadHeavy, WorkloadFor(11))
}
