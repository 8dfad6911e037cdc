package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/study_planner/internal/model"
)

// 2025-01-06 понедельник
func at(day int, hh, mm int) time.Time {
	return time.Date(2025, time.January, day, hh, mm, 0, 0, time.UTC)
}

func testTemplate() []model.TimeSlot {
	// намеренно не по порядку
	return []model.TimeSlot{
		model.NewTimeSlot(model.Monday, "19:00", "19:45", "LIT"),
		model.NewTimeSlot(model.Tuesday, "08:00", "08:45", "FRA"),
		model.NewTimeSlot(model.Monday, "09:00", "09:45", "GEO"),
		model.NewTimeSlot(model.Monday, "09:45", "10:30", "ING"),
		model.NewTimeSlot(model.Monday, "07:00", "07:45", "EFI"),
	}
}

func TestDayOfWeekOf(t *testing.T) {
	assert.Equal(t, model.Sunday, DayOfWeekOf(at(5, 12, 0)))
	assert.Equal(t, model.Monday, DayOfWeekOf(at(6, 0, 0)))
	assert.Equal(t, model.Saturday, DayOfWeekOf(at(11, 23, 59)))
}

func TestDailyScheduleFiltersAndSorts(t *testing.T) {
	daily := DailySchedule(testTemplate(), nil, at(6, 12, 0))

	require.Len(t, daily, 4)
	starts := []string{daily[0].StartTime, daily[1].StartTime, daily[2].StartTime, daily[3].StartTime}
	assert.Equal(t, []string{"07:00", "09:00", "09:45", "19:00"}, starts)
	for _, s := range daily {
		assert.Equal(t, model.Monday, s.Day)
	}
}

func TestDailyScheduleEmptyDay(t *testing.T) {
	sunday := at(5, 10, 0)

	assert.Empty(t, DailySchedule(testTemplate(), nil, sunday))
	_, ok := CurrentSlot(testTemplate(), nil, sunday)
	assert.False(t, ok)
	_, ok = NextSlot(testTemplate(), nil, sunday)
	assert.False(t, ok)
}

func TestDailyScheduleAppliesOverrideOnlyForItsDate(t *testing.T) {
	geo := model.SlotID(model.Monday, "09:00")
	overrides := []model.ScheduleOverride{{Date: "2025-01-06", SlotID: geo, NewSubjectID: "MAT"}}

	daily := DailySchedule(testTemplate(), overrides, at(6, 8, 0))
	plain := DailySchedule(testTemplate(), nil, at(6, 8, 0))
	require.Len(t, daily, len(plain))
	for i := range daily {
		if daily[i].ID == geo {
			assert.Equal(t, "MAT", daily[i].SubjectID)
			continue
		}
		assert.Equal(t, plain[i], daily[i])
	}

	nextMonday := DailySchedule(testTemplate(), overrides, at(13, 8, 0))
	for _, s := range nextMonday {
		if s.ID == geo {
			assert.Equal(t, "GEO", s.SubjectID)
		}
	}
}

func TestDailyScheduleOverrideForOtherDateDoesNotLeak(t *testing.T) {
	geo := model.SlotID(model.Monday, "09:00")
	overrides := []model.ScheduleOverride{{Date: "2025-01-13", SlotID: geo, NewSubjectID: "MAT"}}

	assert.Equal(t, DailySchedule(testTemplate(), nil, at(6, 8, 0)), DailySchedule(testTemplate(), overrides, at(6, 8, 0)))
}

func TestDailyScheduleIgnoresUnknownOverrideSlot(t *testing.T) {
	overrides := []model.ScheduleOverride{{Date: "2025-01-06", SlotID: "nope", NewSubjectID: "MAT"}}

	assert.Equal(t, DailySchedule(testTemplate(), nil, at(6, 8, 0)), DailySchedule(testTemplate(), overrides, at(6, 8, 0)))
}

func TestDailyScheduleDoesNotMutateTemplate(t *testing.T) {
	template := testTemplate()
	overrides := []model.ScheduleOverride{{Date: "2025-01-06", SlotID: template[0].ID, NewSubjectID: "MAT"}}

	_ = DailySchedule(template, overrides, at(6, 8, 0))

	assert.Equal(t, "LIT", template[0].SubjectID)
}

func TestCurrentSlotBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		wantID string
	}{
		{"before first", at(6, 6, 59), ""},
		{"at start", at(6, 9, 0), model.SlotID(model.Monday, "09:00")},
		{"inside", at(6, 9, 30), model.SlotID(model.Monday, "09:00")},
		{"end is exclusive", at(6, 9, 45), model.SlotID(model.Monday, "09:45")},
		{"gap", at(6, 12, 0), ""},
		{"last minute", at(6, 19, 44), model.SlotID(model.Monday, "19:00")},
		{"after last", at(6, 19, 45), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CurrentSlot(testTemplate(), nil, tt.now)
			if tt.wantID == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestCurrentSlotEndBoundaryWithoutFollowingSlot(t *testing.T) {
	template := []model.TimeSlot{model.NewTimeSlot(model.Monday, "09:00", "09:45", "GEO")}

	_, ok := CurrentSlot(template, nil, at(6, 9, 45))
	assert.False(t, ok)
}

func TestNextSlot(t *testing.T) {
	next, ok := NextSlot(testTemplate(), nil, at(6, 9, 0))
	require.True(t, ok)
	assert.Equal(t, "09:45", next.StartTime)

	next, ok = NextSlot(testTemplate(), nil, at(6, 10, 0))
	require.True(t, ok)
	assert.Equal(t, "19:00", next.StartTime)
}

func TestNextSlotDoesNotCrossMidnight(t *testing.T) {
	// во вторник есть пара, но в понедельник вечером следующей нет
	_, ok := NextSlot(testTemplate(), nil, at(6, 20, 0))
	assert.False(t, ok)
}

func TestCurrentAndNextAreConsistent(t *testing.T) {
	for minute := 0; minute < 24*60; minute++ {
		now := at(6, minute/60, minute%60)
		cur, hasCur := CurrentSlot(testTemplate(), nil, now)
		next, hasNext := NextSlot(testTemplate(), nil, now)
		if hasCur && hasNext {
			assert.NotEqual(t, cur.ID, next.ID)
			assert.GreaterOrEqual(t, next.StartTime, cur.EndTime, "at %s", now.Format("15:04"))
		}
	}
}

func TestAt(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	day := time.Date(2025, time.January, 6, 23, 10, 0, 0, loc)

	got, err := At(day, "07:05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 6, 7, 5, 0, 0, loc), got)

	_, err = At(day, "bad")
	assert.Error(t, err)
}

func TestTimeLeft(t *testing.T) {
	assert.Equal(t, "15m", TimeLeft("09:45", at(6, 9, 30)))
	assert.Equal(t, "1h 5m", TimeLeft("10:35", at(6, 9, 30)))
	assert.Equal(t, "0m", TimeLeft("09:45", at(6, 9, 45)))
	assert.Equal(t, "0m", TimeLeft("09:00", at(6, 9, 45)))
	assert.Equal(t, "0m", TimeLeft("garbage", at(6, 9, 45)))
}

func TestSlotProgress(t *testing.T) {
	s := model.NewTimeSlot(model.Monday, "09:00", "10:00", "GEO")

	assert.Equal(t, 0, SlotProgress(s, at(6, 8, 0)))
	assert.Equal(t, 50, SlotProgress(s, at(6, 9, 30)))
	assert.Equal(t, 100, SlotProgress(s, at(6, 11, 0)))
}

func TestSchoolYearProgress(t *testing.T) {
	start := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.September, 11, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, SchoolYearProgress(start.AddDate(0, 0, -1), start, end))
	assert.Equal(t, 50, SchoolYearProgress(start.AddDate(0, 0, 5), start, end))
	assert.Equal(t, 100, SchoolYearProgress(end.AddDate(0, 0, 1), start, end))
}
