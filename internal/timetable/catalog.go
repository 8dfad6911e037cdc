package timetable

import (
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
)

// DefaultMaxAbsences лимит пропусков по умолчанию
const DefaultMaxAbsences = 10

// Границы учебного года
var (
	SchoolStartDate = time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC)
	SchoolEndDate   = time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
)

var subjects = map[string]model.Subject{
	"LIT":  {ID: "LIT", Name: "Literatura", ShortName: "Lit", Color: "amber-500"},
	"ING":  {ID: "ING", Name: "Língua Inglesa", ShortName: "Inglês", Color: "blue-500"},
	"GEO":  {ID: "GEO", Name: "Geografia", ShortName: "Geo", Color: "emerald-500"},
	"EFI":  {ID: "EFI", Name: "Educação Física", ShortName: "Ed. Física", Color: "lime-500"},
	"FRA":  {ID: "FRA", Name: "Língua Francesa", ShortName: "Francês", Color: "indigo-500"},
	"POR":  {ID: "POR", Name: "Língua Portuguesa", ShortName: "Português", Color: "rose-500"},
	"PSA":  {ID: "PSA", Name: "Psicologia/Sociologia/Antropologia", ShortName: "Psi/Soc", Color: "purple-500"},
	"EMP":  {ID: "EMP", Name: "Empreendedorismo", ShortName: "Empreend.", Color: "cyan-500"},
	"HIS":  {ID: "HIS", Name: "História", ShortName: "Hist", Color: "orange-500"},
	"FIL":  {ID: "FIL", Name: "Filosofia", ShortName: "Filo", Color: "teal-500"},
	"MAT":  {ID: "MAT", Name: "Matemática", ShortName: "Mat", Color: "indigo-600"},
	"FREE": {ID: "FREE", Name: "Vago / Estudo Livre", ShortName: "Livre", Color: "slate-400"},
}

// ClassOption класс, доступный для выбора
type ClassOption struct {
	ID    string
	Label string
}

var classOptions = []ClassOption{
	{ID: "12-CH", Label: "12ª Classe - Ciências Humanas"},
	{ID: "11-CH", Label: "11ª Classe - Ciências Humanas (Demo)"},
}

var slot = model.NewTimeSlot

var schedule12CH = []model.TimeSlot{
	slot(model.Monday, "07:00", "07:45", "EFI"),
	slot(model.Monday, "18:10", "18:50", "LIT"),
	slot(model.Monday, "19:00", "19:45", "LIT"),
	slot(model.Monday, "19:50", "20:35", "ING"),
	slot(model.Monday, "20:40", "21:25", "ING"),
	slot(model.Monday, "21:30", "22:15", "GEO"),
	slot(model.Monday, "22:20", "23:05", "FREE"),

	slot(model.Tuesday, "18:10", "18:50", "FREE"),
	slot(model.Tuesday, "19:00", "19:45", "FRA"),
	slot(model.Tuesday, "19:50", "20:35", "POR"),
	slot(model.Tuesday, "20:40", "21:25", "POR"),
	slot(model.Tuesday, "21:30", "22:15", "PSA"),
	slot(model.Tuesday, "22:20", "23:05", "PSA"),

	slot(model.Wednesday, "18:10", "18:50", "ING"),
	slot(model.Wednesday, "19:00", "19:45", "ING"),
	slot(model.Wednesday, "19:50", "20:35", "GEO"),
	slot(model.Wednesday, "20:40", "21:25", "GEO"),
	slot(model.Wednesday, "21:30", "22:15", "EMP"),
	slot(model.Wednesday, "22:20", "23:05", "EMP"),

	slot(model.Thursday, "18:10", "18:50", "HIS"),
	slot(model.Thursday, "19:00", "19:45", "HIS"),
	slot(model.Thursday, "19:50", "20:35", "FIL"),
	slot(model.Thursday, "20:40", "21:25", "FIL"),
	slot(model.Thursday, "21:30", "22:15", "FREE"),
	slot(model.Thursday, "22:20", "23:05", "FREE"),

	slot(model.Friday, "07:50", "08:35", "EFI"),
	slot(model.Friday, "18:10", "18:50", "POR"),
	slot(model.Friday, "19:00", "19:45", "POR"),
	slot(model.Friday, "19:50", "20:35", "FRA"),
	slot(model.Friday, "20:40", "21:25", "FRA"),
	slot(model.Friday, "21:30", "22:15", "HIS"),
	slot(model.Friday, "22:20", "23:05", "FREE"),
}

// Демонстрационный шаблон, заполнен только понедельник
var schedule11CH = []model.TimeSlot{
	slot(model.Monday, "18:10", "18:50", "MAT"),
	slot(model.Monday, "19:00", "19:45", "MAT"),
	slot(model.Monday, "19:50", "20:35", "POR"),
	slot(model.Monday, "20:40", "21:25", "POR"),
}

var schedules = map[string][]model.TimeSlot{
	"12-CH": schedule12CH,
	"11-CH": schedule11CH,
}

// ScheduleForClass возвращает копию шаблона класса.
// Пустой или неизвестный classID даёт шаблон 12-CH.
func ScheduleForClass(classID string) []model.TimeSlot {
	template, ok := schedules[classID]
	if !ok {
		template = schedules[model.DefaultClassID]
	}
	out := make([]model.TimeSlot, len(template))
	copy(out, template)
	return out
}

// HasClass проверяет, есть ли шаблон для класса
func HasClass(classID string) bool {
	_, ok := schedules[classID]
	return ok
}

// ClassOptions список классов для выбора
func ClassOptions() []ClassOption {
	out := make([]ClassOption, len(classOptions))
	copy(out, classOptions)
	return out
}

// Subject ищет предмет в каталоге и накладывает пользовательские правки.
// Отсутствие предмета не ошибка: возвращается false.
func Subject(id string, custom map[string]model.SubjectDetails) (model.Subject, bool) {
	subject, ok := subjects[id]
	if !ok {
		return model.Subject{}, false
	}
	if details, has := custom[id]; has {
		subject = details.Apply(subject)
	}
	return subject, true
}

// SubjectName имя предмета или сам id, если предмета нет в каталоге
func SubjectName(id string, custom map[string]model.SubjectDetails) string {
	if subject, ok := Subject(id, custom); ok {
		return subject.Name
	}
	return id
}

// Subjects все предметы каталога, отсортированные по ID
func Subjects(custom map[string]model.SubjectDetails) []model.Subject {
	out := make([]model.Subject, 0, len(subjects))
	for id := range subjects {
		s, _ := Subject(id, custom)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindSlot ищет слот шаблона по ID
func FindSlot(template []model.TimeSlot, slotID string) (model.TimeSlot, bool) {
	for _, s := range template {
		if s.ID == slotID {
			return s, true
		}
	}
	return model.TimeSlot{}, false
}

// ValidateTemplate проверяет уникальность ID и формат времени
func ValidateTemplate(template []model.TimeSlot) error {
	seen := make(map[string]struct{}, len(template))
	for _, s := range template {
		if s.ID != model.SlotID(s.Day, s.StartTime) {
			return fmt.Errorf("slot %q: id does not match day and start time", s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("slot %q: duplicate id", s.ID)
		}
		seen[s.ID] = struct{}{}

		start, err := time.Parse(model.TimeLayout, s.StartTime)
		if err != nil || len(s.StartTime) != 5 {
			return fmt.Errorf("slot %q: bad start time %q", s.ID, s.StartTime)
		}
		end, err := time.Parse(model.TimeLayout, s.EndTime)
		if err != nil || len(s.EndTime) != 5 {
			return fmt.Errorf("slot %q: bad end time %q", s.ID, s.EndTime)
		}
		if !end.After(start) {
			return fmt.Errorf("slot %q: end %s is not after start %s", s.ID, s.EndTime, s.StartTime)
		}
		if s.Day.Index() < 0 {
			return fmt.Errorf("slot %q: unknown day %q", s.ID, s.Day)
		}
	}
	return nil
}
