package schedule

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
)

// DayOfWeekOf возвращает название дня для даты (0 = Sunday ... 6 = Saturday)
func DayOfWeekOf(t time.Time) model.DayOfWeek {
	return model.Weekdays[t.Weekday()]
}

// DailySchedule собирает фактическое расписание на дату: слоты дня из шаблона,
// предмет заменяется, если есть замена на эту дату и слот.
// Каждый вызов возвращает новый срез, отсортированный по времени начала.
func DailySchedule(template []model.TimeSlot, overrides []model.ScheduleOverride, date time.Time) []model.TimeSlot {
	day := DayOfWeekOf(date)
	dateStr := date.Format(model.DateLayout)

	slots := make([]model.TimeSlot, 0)
	for _, s := range template {
		if s.Day != day {
			continue
		}
		for _, o := range overrides {
			if o.Matches(dateStr, s.ID) {
				s.SubjectID = o.NewSubjectID
				break
			}
		}
		slots = append(slots, s)
	}

	// "HH:mm" с ведущими нулями сравнивается как строка
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots
}

// CurrentSlot слот, который идёт сейчас. Интервал полуоткрытый:
// пара, заканчивающаяся в 09:45, в 09:45 уже не текущая.
func CurrentSlot(template []model.TimeSlot, overrides []model.ScheduleOverride, now time.Time) (model.TimeSlot, bool) {
	return CurrentIn(DailySchedule(template, overrides, now), now)
}

// NextSlot первый слот, который начинается позже текущей минуты.
// Завтрашний день не рассматривается.
func NextSlot(template []model.TimeSlot, overrides []model.ScheduleOverride, now time.Time) (model.TimeSlot, bool) {
	return NextIn(DailySchedule(template, overrides, now), now)
}

// CurrentIn то же, что CurrentSlot, для уже собранного расписания дня
func CurrentIn(daily []model.TimeSlot, now time.Time) (model.TimeSlot, bool) {
	clock := now.Format(model.TimeLayout)
	for _, s := range daily {
		if s.StartTime <= clock && clock < s.EndTime {
			return s, true
		}
	}
	return model.TimeSlot{}, false
}

// NextIn то же, что NextSlot, для уже собранного расписания дня
func NextIn(daily []model.TimeSlot, now time.Time) (model.TimeSlot, bool) {
	clock := now.Format(model.TimeLayout)
	for _, s := range daily {
		if s.StartTime > clock {
			return s, true
		}
	}
	return model.TimeSlot{}, false
}

// At совмещает календарную дату day со временем "HH:mm" в часовом поясе day
func At(day time.Time, hhmm string) (time.Time, error) {
	clock, err := time.Parse(model.TimeLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location()), nil
}

// TimeLeft оставшееся до endTime время в виде "1h 5m" или "12m"
func TimeLeft(endTime string, now time.Time) string {
	end, err := At(now, endTime)
	if err != nil {
		return "0m"
	}
	diff := end.Sub(now)
	if diff <= 0 {
		return "0m"
	}

	minutes := int(diff / time.Minute)
	hours := minutes / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// SlotProgress процент прошедшего времени пары, 0..100
func SlotProgress(slot model.TimeSlot, now time.Time) int {
	start, err := At(now, slot.StartTime)
	if err != nil {
		return 0
	}
	end, err := At(now, slot.EndTime)
	if err != nil || !end.After(start) {
		return 0
	}
	ratio := float64(now.Sub(start)) / float64(end.Sub(start))
	return clampPercent(ratio)
}

// SchoolYearProgress процент прошедшего учебного года
func SchoolYearProgress(now, start, end time.Time) int {
	if now.Before(start) {
		return 0
	}
	if now.After(end) {
		return 100
	}
	total := end.Sub(start)
	if total <= 0 {
		return 100
	}
	return clampPercent(float64(now.Sub(start)) / float64(total))
}

func clampPercent(ratio float64) int {
	p := int(math.Round(ratio * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
