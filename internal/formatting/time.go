package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
)

// FormatDate форматирует дату как 06/01/2025
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateWithWeekday дата с названием дня: "Segunda-feira, 06/01"
func FormatDateWithWeekday(t time.Time) string {
	return fmt.Sprintf("%s, %s", model.Weekdays[t.Weekday()], t.Format("02/01"))
}

// FormatTimeRange диапазон "HH:mm-HH:mm" слота
func FormatTimeRange(slot model.TimeSlot) string {
	return slot.StartTime + "-" + slot.EndTime
}

// FormatDuration длительность в минутах: "45 min", "1h 30min"
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dmin", hours, mins)
}

// WeekdayShort короткое название дня: "Seg", "Ter", ...
func WeekdayShort(day model.DayOfWeek) string {
	switch day {
	case model.Monday:
		return "Seg"
	case model.Tuesday:
		return "Ter"
	case model.Wednesday:
		return "Qua"
	case model.Thursday:
		return "Qui"
	case model.Friday:
		return "Sex"
	case model.Saturday:
		return "Sáb"
	case model.Sunday:
		return "Dom"
	}
	return "?"
}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName название месяца по-португальски
func MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return monthNames[month-1]
}

// WeekStart понедельник недели, в которую попадает t, 00:00
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return day.AddDate(0, 0, -offset)
}
