package handlers

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner/internal/formatting"
	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/service"
)

// FormatDay список пар дня с номерами для команд
func FormatDay(date time.Time, slots []service.SlotView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 <b>%s</b>\n\n", formatting.FormatDateWithWeekday(date))

	if len(slots) == 0 {
		sb.WriteString("Sem aulas hoje. 🎉")
		return sb.String()
	}

	for i, s := range slots {
		fmt.Fprintf(&sb, "%d. %s %s", i+1, formatting.FormatTimeRange(s.TimeSlot), html.EscapeString(s.Subject.Name))
		if s.Overridden {
			sb.WriteString(" 🔄")
		}
		if s.Reminder != nil {
			fmt.Fprintf(&sb, " 🔔%d", s.Reminder.MinutesBefore)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatDashboard сводка для /now
func FormatDashboard(d *service.Dashboard) string {
	var sb strings.Builder

	if d.UserName != "" {
		fmt.Fprintf(&sb, "👋 Olá, %s!\n", html.EscapeString(d.UserName))
	}
	fmt.Fprintf(&sb, "📅 <b>%s</b> · %s\n\n", formatting.FormatDateWithWeekday(d.Now), html.EscapeString(d.ClassID))

	if d.Current != nil {
		fmt.Fprintf(&sb, "▶️ Agora: <b>%s</b> (%s), faltam %s · %d%%\n",
			html.EscapeString(d.Current.Subject.Name), formatting.FormatTimeRange(d.Current.TimeSlot), d.TimeLeft, d.Progress)
	} else {
		sb.WriteString("⏸ Nenhuma aula agora\n")
	}
	if d.Next != nil {
		fmt.Fprintf(&sb, "⏭ Próxima: <b>%s</b> às %s\n", html.EscapeString(d.Next.Subject.Name), d.Next.StartTime)
	} else {
		sb.WriteString("⏭ Não há mais aulas hoje\n")
	}

	fmt.Fprintf(&sb, "\n🔥 Sequência: %s\n", formatting.Days(d.Streak))
	fmt.Fprintf(&sb, "📝 Tarefas pendentes: %d (%s)\n", d.PendingTasks, d.Workload)
	fmt.Fprintf(&sb, "🎓 Ano letivo: %d%%", d.YearProgress)
	return sb.String()
}

// FormatStreak текст для /streak
func FormatStreak(days int) string {
	if days == 0 {
		return "🔥 Nenhuma sequência ativa. Estude hoje para começar!"
	}
	return fmt.Sprintf("🔥 Sequência de estudo: <b>%s</b>", formatting.Days(days))
}

// FormatAttendance сводка посещаемости
func FormatAttendance(summary *service.AttendanceSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 <b>Assiduidade global: %d%%</b>\n\n", summary.GlobalRate)

	for _, l := range summary.Lines {
		mark := "✅"
		if l.IsCritical {
			mark = "⚠️"
		}
		fmt.Fprintf(&sb, "%s %s: %d/%d faltas\n", mark, html.EscapeString(l.Subject.ShortName), l.Absent, l.MaxAbsences)
	}
	return sb.String()
}

// FormatReminders список включённых напоминаний
func FormatReminders(reminders []model.Reminder) string {
	var sb strings.Builder
	sb.WriteString("🔔 <b>Lembretes</b>\n\n")

	active := 0
	for _, r := range reminders {
		if !r.Active {
			continue
		}
		active++
		fmt.Fprintf(&sb, "• %s, %s antes\n", html.EscapeString(r.SlotID), formatting.Minutes(r.MinutesBefore))
	}
	if active == 0 {
		sb.WriteString("Nenhum lembrete ativo.")
	}
	return sb.String()
}

const helpText = "📚 <b>Comandos</b>\n\n" +
	"/now - Aula atual e próxima\n" +
	"/today [dia] - Horário de hoje ou de outro dia\n" +
	"/week - Horário da semana (imagem e Excel)\n" +
	"/streak - Sequência de estudo\n" +
	"/remind &lt;aula&gt; &lt;min&gt; - Criar lembrete\n" +
	"/unremind &lt;aula&gt; - Remover lembrete\n" +
	"/reminders - Lembretes ativos\n" +
	"/override &lt;aula&gt; &lt;disciplina&gt; [AAAA-MM-DD] - Substituir disciplina\n" +
	"/reset &lt;aula&gt; [AAAA-MM-DD] - Desfazer substituição\n" +
	"/absence &lt;disciplina&gt; [+n|-n] - Registar faltas\n" +
	"/attendance - Assiduidade\n" +
	"/task &lt;disciplina&gt; &lt;título&gt; - Nova tarefa\n" +
	"/note &lt;disciplina&gt; &lt;texto&gt; - Nova nota\n" +
	"/grade &lt;disciplina&gt; &lt;valor&gt; &lt;nome&gt; - Nova avaliação\n" +
	"/export - Backup dos dados\n\n" +
	"&lt;aula&gt; é o número em /today ou dia e hora, por exemplo seg-19:00."
