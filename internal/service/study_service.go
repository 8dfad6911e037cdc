package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/store"
	"github.com/Freeeeeet/study_planner/internal/streak"
	"github.com/Freeeeeet/study_planner/internal/timetable"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// criticalShare доля лимита пропусков, после которой предмет считается критичным
const criticalShare = 0.8

// AttendanceLine посещаемость одного предмета
type AttendanceLine struct {
	Subject     model.Subject
	Absent      int
	MaxAbsences int
	Remaining   int
	IsCritical  bool
}

// AttendanceSummary сводка посещаемости по всем предметам
type AttendanceSummary struct {
	Lines []AttendanceLine
	// GlobalRate процент неиспользованного лимита пропусков
	GlobalRate int
}

// NewTask параметры нового задания
type NewTask struct {
	SubjectID string
	Title     string
	DueDate   time.Time
	Type      model.TaskType
	Priority  model.TaskPriority
}

// StudyService пользовательские записи: задания, заметки, оценки, посещаемость, серия
type StudyService struct {
	store  *store.StateStore
	logger *zap.Logger
}

func NewStudyService(st *store.StateStore, logger *zap.Logger) *StudyService {
	return &StudyService{
		store:  st,
		logger: logger,
	}
}

// SetUserName сохраняет имя пользователя
func (s *StudyService) SetUserName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyText
	}
	return s.store.Update(ctx, func(data *model.AppData) error {
		data.UserName = name
		return nil
	})
}

// LogActivity отмечает день now как учебный. Повторная отметка ничего не меняет.
func (s *StudyService) LogActivity(ctx context.Context, now time.Time) error {
	added := false
	err := s.store.Update(ctx, func(data *model.AppData) error {
		data.StudyActivityDates, added = streak.Add(data.StudyActivityDates, now)
		return nil
	})
	if err != nil {
		return fmt.Errorf("log activity: %w", err)
	}

	if added {
		s.logger.Info("Study activity logged", zap.String("date", now.Format(model.DateLayout)))
	}
	return nil
}

// Streak текущая серия учебных дней
func (s *StudyService) Streak(ctx context.Context, now time.Time) (int, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return streak.Calculate(data.StudyActivityDates, now), nil
}

// AddAbsence меняет число пропусков на delta, не опускаясь ниже нуля
func (s *StudyService) AddAbsence(ctx context.Context, subjectID string, delta int) (model.AttendanceRecord, error) {
	var record model.AttendanceRecord

	err := s.store.Update(ctx, func(data *model.AppData) error {
		if _, ok := timetable.Subject(subjectID, data.CustomSubjectDetails); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSubject, subjectID)
		}
		record = attendanceOf(data, subjectID)
		record.Absent = max(0, record.Absent+delta)
		data.Attendance[subjectID] = record
		return nil
	})
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("add absence: %w", err)
	}

	s.logger.Info("Attendance updated",
		zap.String("subject_id", subjectID),
		zap.Int("absent", record.Absent),
		zap.Int("max_absences", record.MaxAbsences))
	return record, nil
}

// SetMaxAbsences задаёт лимит пропусков предмета
func (s *StudyService) SetMaxAbsences(ctx context.Context, subjectID string, limit int) error {
	if limit < 1 {
		return fmt.Errorf("max absences must be positive, got %d", limit)
	}
	return s.store.Update(ctx, func(data *model.AppData) error {
		if _, ok := timetable.Subject(subjectID, data.CustomSubjectDetails); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSubject, subjectID)
		}
		record := attendanceOf(data, subjectID)
		record.MaxAbsences = limit
		data.Attendance[subjectID] = record
		return nil
	})
}

// AttendanceSummary посещаемость по предметам каталога кроме FREE,
// самые проблемные предметы первыми
func (s *StudyService) AttendanceSummary(ctx context.Context) (*AttendanceSummary, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	summary := &AttendanceSummary{GlobalRate: 100}
	totalAbsent, totalMax := 0, 0

	for _, subject := range timetable.Subjects(data.CustomSubjectDetails) {
		if subject.ID == model.SubjectFree {
			continue
		}
		record := attendanceOf(data, subject.ID)
		totalAbsent += record.Absent
		totalMax += record.MaxAbsences

		summary.Lines = append(summary.Lines, AttendanceLine{
			Subject:     subject,
			Absent:      record.Absent,
			MaxAbsences: record.MaxAbsences,
			Remaining:   max(0, record.MaxAbsences-record.Absent),
			IsCritical:  float64(record.Absent) >= float64(record.MaxAbsences)*criticalShare,
		})
	}

	sort.SliceStable(summary.Lines, func(i, j int) bool {
		return absenceRatio(summary.Lines[i]) > absenceRatio(summary.Lines[j])
	})

	if totalMax > 0 {
		summary.GlobalRate = int(math.Round(float64(totalMax-totalAbsent) / float64(totalMax) * 100))
	}
	return summary, nil
}

func absenceRatio(l AttendanceLine) float64 {
	if l.MaxAbsences <= 0 {
		return 0
	}
	return float64(l.Absent) / float64(l.MaxAbsences)
}

func attendanceOf(data *model.AppData, subjectID string) model.AttendanceRecord {
	record, ok := data.Attendance[subjectID]
	if !ok {
		return model.AttendanceRecord{SubjectID: subjectID, MaxAbsences: timetable.DefaultMaxAbsences}
	}
	if record.MaxAbsences <= 0 {
		record.MaxAbsences = timetable.DefaultMaxAbsences
	}
	record.SubjectID = subjectID
	return record
}

// AddTask добавляет задание в начало списка и отмечает активность
func (s *StudyService) AddTask(ctx context.Context, in NewTask, now time.Time) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Task{}, ErrEmptyText
	}

	task := model.Task{
		ID:        uuid.NewString(),
		SubjectID: in.SubjectID,
		Title:     title,
		DueDate:   in.DueDate.Format(time.RFC3339),
		Type:      in.Type,
		Priority:  in.Priority,
	}
	if task.Type == "" {
		task.Type = model.TaskTypeHomework
	}
	if task.Priority == "" {
		task.Priority = model.TaskPriorityMedium
	}

	err := s.store.Update(ctx, func(data *model.AppData) error {
		data.Tasks = append([]model.Task{task}, data.Tasks...)
		data.StudyActivityDates, _ = streak.Add(data.StudyActivityDates, now)
		return nil
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("add task: %w", err)
	}

	s.logger.Info("Task added",
		zap.String("task_id", task.ID),
		zap.String("subject_id", task.SubjectID))
	return task, nil
}

// ToggleTask переключает отметку выполнения задания
func (s *StudyService) ToggleTask(ctx context.Context, taskID string, now time.Time) (bool, error) {
	completed := false
	err := s.store.Update(ctx, func(data *model.AppData) error {
		for i := range data.Tasks {
			if data.Tasks[i].ID == taskID {
				data.Tasks[i].IsCompleted = !data.Tasks[i].IsCompleted
				completed = data.Tasks[i].IsCompleted
				data.StudyActivityDates, _ = streak.Add(data.StudyActivityDates, now)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	})
	if err != nil {
		return false, fmt.Errorf("toggle task: %w", err)
	}
	return completed, nil
}

// DeleteTask удаляет задание
func (s *StudyService) DeleteTask(ctx context.Context, taskID string) error {
	err := s.store.Update(ctx, func(data *model.AppData) error {
		for i, t := range data.Tasks {
			if t.ID == taskID {
				data.Tasks = append(data.Tasks[:i], data.Tasks[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.logger.Info("Task deleted", zap.String("task_id", taskID))
	return nil
}

// AddNote сохраняет заметку с префиксом времени "HH:mm - "
func (s *StudyService) AddNote(ctx context.Context, subjectID, content string, now time.Time) (model.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Note{}, ErrEmptyText
	}

	note := model.Note{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Content:   now.Format(model.TimeLayout) + " - " + content,
		CreatedAt: now.Format(time.RFC3339),
	}

	err := s.store.Update(ctx, func(data *model.AppData) error {
		data.Notes = append([]model.Note{note}, data.Notes...)
		data.StudyActivityDates, _ = streak.Add(data.StudyActivityDates, now)
		return nil
	})
	if err != nil {
		return model.Note{}, fmt.Errorf("add note: %w", err)
	}
	return note, nil
}

// AddGrade сохраняет оценку по шкале 0-20
func (s *StudyService) AddGrade(ctx context.Context, subjectID, name string, value float64, now time.Time) (model.Grade, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Grade{}, ErrEmptyText
	}
	if math.IsNaN(value) || value < 0 || value > 20 {
		return model.Grade{}, ErrInvalidGrade
	}

	grade := model.Grade{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Name:      name,
		Value:     value,
		CreatedAt: now.Format(time.RFC3339),
	}

	err := s.store.Update(ctx, func(data *model.AppData) error {
		data.Grades = append([]model.Grade{grade}, data.Grades...)
		data.StudyActivityDates, _ = streak.Add(data.StudyActivityDates, now)
		return nil
	})
	if err != nil {
		return model.Grade{}, fmt.Errorf("add grade: %w", err)
	}

	s.logger.Info("Grade added",
		zap.String("subject_id", subjectID),
		zap.Float64("value", value))
	return grade, nil
}

// Export резервная копия всего документа
func (s *StudyService) Export(ctx context.Context) ([]byte, error) {
	return s.store.Export(ctx)
}

// Import заменяет документ резервной копией
func (s *StudyService) Import(ctx context.Context, raw []byte) error {
	return s.store.Import(ctx, raw)
}
