package streak

import (
	"sort"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
)

// Calculate считает серию подряд идущих дней активности, которая заканчивается
// сегодня или вчера. Дубликаты и нераспознанные даты игнорируются,
// время суток не учитывается.
func Calculate(dates []string, today time.Time) int {
	days := uniqueDays(dates)
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	todayDay := dayOf(today)
	yesterday := todayDay.AddDate(0, 0, -1)
	if !days[0].Equal(todayDay) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	current := days[0]
	for _, prev := range days[1:] {
		if daysBetween(prev, current) != 1 {
			break
		}
		streak++
		current = prev
	}
	return streak
}

// Add добавляет день в набор дат активности, если его там ещё нет
func Add(dates []string, day time.Time) ([]string, bool) {
	key := day.Format(model.DateLayout)
	for _, d := range dates {
		if d == key {
			return dates, false
		}
	}
	return append(dates, key), true
}

func uniqueDays(dates []string) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, raw := range dates {
		d, err := time.Parse(model.DateLayout, raw)
		if err != nil {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	return days
}

// dayOf переносит календарную дату t в полночь UTC, как у разобранных строк
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
