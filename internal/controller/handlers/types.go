package handlers

import (
	"time"

	"github.com/Freeeeeet/study_planner/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	planner  *service.PlannerService
	study    *service.StudyService
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	planner *service.PlannerService,
	study *service.StudyService,
	location *time.Location,
	logger *zap.Logger,
) *Handlers {
	if location == nil {
		location = time.Local
	}
	return &Handlers{
		planner:  planner,
		study:    study,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// clock текущее время в часовом поясе школы
func (h *Handlers) clock() time.Time {
	return h.now().In(h.location)
}
