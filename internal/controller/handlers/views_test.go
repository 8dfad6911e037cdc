package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/service"
)

func TestFormatDay(t *testing.T) {
	slots := todayViews()
	slots[0].Subject = model.Subject{Name: "Língua Inglesa"}
	slots[1].Subject = model.Subject{Name: "R&D"}
	slots[1].Overridden = true
	slots[1].Reminder = &model.Reminder{MinutesBefore: 10, Active: true}

	text := FormatDay(wednesday, slots)

	assert.Contains(t, text, "Quarta-feira, 08/01")
	assert.Contains(t, text, "1. 18:10-18:50 Língua Inglesa\n")
	assert.Contains(t, text, "2. 19:00-19:45 R&amp;D 🔄 🔔10")
	assert.Contains(t, FormatDay(wednesday, nil), "Sem aulas")
}

func TestFormatDashboard(t *testing.T) {
	current := todayViews()[1]
	current.Subject = model.Subject{Name: "Língua Inglesa"}

	text := FormatDashboard(&service.Dashboard{
		Now:          wednesday,
		UserName:     "<Ana>",
		ClassID:      "12-CH",
		Current:      &current,
		TimeLeft:     "15m",
		Progress:     67,
		Streak:       1,
		PendingTasks: 2,
		Workload:     service.WorkloadLight,
		YearProgress: 40,
	})

	assert.Contains(t, text, "&lt;Ana&gt;")
	assert.Contains(t, text, "Agora: <b>Língua Inglesa</b> (19:00-19:45), faltam 15m · 67%")
	assert.Contains(t, text, "Não há mais aulas hoje")
	assert.Contains(t, text, "1 dia")
	assert.Contains(t, text, "2 (Leve)")
}

func TestFormatAttendanceAndReminders(t *testing.T) {
	text := FormatAttendance(&service.AttendanceSummary{
		GlobalRate: 95,
		Lines: []service.AttendanceLine{
			{Subject: model.Subject{ShortName: "Hist"}, Absent: 4, MaxAbsences: 5, IsCritical: true},
			{Subject: model.Subject{ShortName: "Geo"}, Absent: 1, MaxAbsences: 10},
		},
	})
	assert.Contains(t, text, "95%")
	assert.Contains(t, text, "⚠️ Hist: 4/5")
	assert.Contains(t, text, "✅ Geo: 1/10")

	assert.Contains(t, FormatReminders(nil), "Nenhum lembrete")
	assert.Contains(t, FormatReminders([]model.Reminder{{SlotID: "x", MinutesBefore: 1, Active: true}}), "1 minuto antes")
	assert.Contains(t, FormatStreak(0), "Nenhuma")
	assert.Contains(t, FormatStreak(3), "3 dias")
}
