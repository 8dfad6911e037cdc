package render

import (
	"time"

	"github.com/Freeeeeet/study_planner/internal/formatting"
	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/Freeeeeet/study_planner/internal/timetable"
)

// Cell пара в недельной сетке
type Cell struct {
	Slot       model.TimeSlot
	Subject    model.Subject
	Overridden bool
}

// DayColumn учебный день недели с фактическим расписанием
type DayColumn struct {
	Date  time.Time
	Day   model.DayOfWeek
	Cells []Cell
}

// BuildWeek собирает фактическое расписание с понедельника по пятницу
// недели, в которую попадает weekStart
func BuildWeek(data *model.AppData, weekStart time.Time) []DayColumn {
	monday := formatting.WeekStart(weekStart)
	template := timetable.ScheduleForClass(data.SelectedClassID)

	columns := make([]DayColumn, 0, len(model.SchoolDays))
	for i, day := range model.SchoolDays {
		date := monday.AddDate(0, 0, i)
		column := DayColumn{Date: date, Day: day}

		for _, slot := range schedule.DailySchedule(template, data.ScheduleOverrides, date) {
			cell := Cell{Slot: slot}
			if subject, ok := timetable.Subject(slot.SubjectID, data.CustomSubjectDetails); ok {
				cell.Subject = subject
			} else {
				cell.Subject = model.Subject{ID: slot.SubjectID, Name: slot.SubjectID, ShortName: slot.SubjectID}
			}
			if original, ok := timetable.FindSlot(template, slot.ID); ok {
				cell.Overridden = original.SubjectID != slot.SubjectID
			}
			column.Cells = append(column.Cells, cell)
		}
		columns = append(columns, column)
	}
	return columns
}

// minutesOf переводит "HH:mm" в минуты от полуночи
func minutesOf(hhmm string) (int, bool) {
	t, err := time.Parse(model.TimeLayout, hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
