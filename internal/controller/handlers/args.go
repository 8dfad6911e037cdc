package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner/internal/formatting"
	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/service"
)

// errUsage неверные аргументы команды; текст после ": " показывается пользователю
var errUsage = errors.New("usage")

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// commandArgs аргументы после имени команды
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// slotRef ссылка на слот и дата, к которой она относится
type slotRef struct {
	SlotID string
	Date   time.Time
}

var accents = strings.NewReplacer("á", "a", "ç", "c", "é", "e")

// dayFromName распознаёт "seg", "Sáb", "segunda-feira"
func dayFromName(name string) (model.DayOfWeek, bool) {
	name = accents.Replace(strings.ToLower(name))
	for _, d := range model.Weekdays {
		short := accents.Replace(strings.ToLower(formatting.WeekdayShort(d)))
		full := accents.Replace(strings.ToLower(string(d)))
		if name == short || name == full {
			return d, true
		}
	}
	return "", false
}

// nextOccurrence ближайшая дата (начиная с from) с днём недели day
func nextOccurrence(from time.Time, day model.DayOfWeek) time.Time {
	diff := (day.Index() - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, diff)
}

// parseSlotRef понимает номер пары из /today ("3") или день и время ("seg-19:00").
// Для дня недели берётся ближайшая дата с этим днём.
func parseSlotRef(ref string, today []service.SlotView, now time.Time) (slotRef, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(today) {
			return slotRef{}, usage("Hoje há %s; número %d não existe.", formatting.Lessons(len(today)), n)
		}
		return slotRef{SlotID: today[n-1].ID, Date: now}, nil
	}

	i := strings.LastIndex(ref, "-")
	if i <= 0 {
		return slotRef{}, usage("Indique a aula pelo número (/today) ou como seg-19:00.")
	}
	day, ok := dayFromName(ref[:i])
	if !ok {
		return slotRef{}, usage("Dia desconhecido: %s", ref[:i])
	}
	hhmm := ref[i+1:]
	if _, err := time.Parse(model.TimeLayout, hhmm); err != nil || len(hhmm) != 5 {
		return slotRef{}, usage("Hora inválida: %s (use HH:mm)", hhmm)
	}
	return slotRef{SlotID: model.SlotID(day, hhmm), Date: nextOccurrence(now, day)}, nil
}

// parseDate разбирает необязательную дату YYYY-MM-DD в часовом поясе now
func parseDate(raw string, now time.Time) (time.Time, error) {
	d, err := time.ParseInLocation(model.DateLayout, raw, now.Location())
	if err != nil {
		return time.Time{}, usage("Data inválida: %s (use AAAA-MM-DD)", raw)
	}
	return d, nil
}

// parseMinutes минуты напоминания
func parseMinutes(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, usage("Minutos inválidos: %s", raw)
	}
	return n, nil
}

// parseGrade оценка, допускает запятую как разделитель
func parseGrade(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, usage("Nota inválida: %s", raw)
	}
	return v, nil
}

// subjectCode код предмета в верхнем регистре
func subjectCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
