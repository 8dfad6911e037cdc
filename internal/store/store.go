package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Freeeeeet/study_planner/internal/model"
	"go.uber.org/zap"
)

// ErrInvalidBackup файл резервной копии не похож на документ приложения
var ErrInvalidBackup = errors.New("invalid backup file")

// Backend хранилище сериализованного документа.
// Load возвращает nil, nil, если документ ещё не сохранялся.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, document []byte) error
}

// StateStore единственный владелец документа приложения.
// Все изменения проходят через Update: копия, изменение, запись, замена.
type StateStore struct {
	mu      sync.Mutex
	backend Backend
	data    *model.AppData
	logger  *zap.Logger
}

// NewStateStore создаёт хранилище состояния поверх backend
func NewStateStore(backend Backend, logger *zap.Logger) *StateStore {
	return &StateStore{
		backend: backend,
		logger:  logger,
	}
}

// Load перечитывает документ из backend.
// Испорченный документ не ошибка: используется пустое состояние.
func (s *StateStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *StateStore) loadLocked(ctx context.Context) error {
	raw, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	s.data = decodeOrDefault(raw, s.logger)
	return nil
}

func (s *StateStore) ensureLoadedLocked(ctx context.Context) error {
	if s.data != nil {
		return nil
	}
	return s.loadLocked(ctx)
}

// Snapshot возвращает независимую копию текущего документа
func (s *StateStore) Snapshot(ctx context.Context) (*model.AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	return clone(s.data)
}

// Update применяет fn к копии документа и сохраняет результат.
// Если fn или запись вернули ошибку, состояние не меняется.
func (s *StateStore) Update(ctx context.Context, fn func(data *model.AppData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}

	next, err := clone(s.data)
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	next.Normalize()

	return s.persistLocked(ctx, next)
}

// Export сериализует документ для резервной копии
func (s *StateStore) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s.data)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return raw, nil
}

// Import целиком заменяет документ содержимым резервной копии.
// Копия без массива tasks отклоняется, текущее состояние не трогается.
func (s *StateStore) Import(ctx context.Context, raw []byte) error {
	data, err := DecodeBackup(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistLocked(ctx, data); err != nil {
		return err
	}

	s.logger.Info("State replaced from backup",
		zap.Int("tasks", len(data.Tasks)),
		zap.Int("reminders", len(data.Reminders)),
		zap.Int("overrides", len(data.ScheduleOverrides)))
	return nil
}

func (s *StateStore) persistLocked(ctx context.Context, data *model.AppData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.backend.Save(ctx, raw); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	s.data = data
	return nil
}

// DecodeBackup проверяет форму резервной копии и разбирает её
func DecodeBackup(raw []byte) (*model.AppData, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	var tasks []json.RawMessage
	tasksRaw, ok := shape["tasks"]
	if !ok || json.Unmarshal(tasksRaw, &tasks) != nil || tasks == nil {
		return nil, fmt.Errorf("%w: tasks collection is missing", ErrInvalidBackup)
	}

	data := &model.AppData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	data.Normalize()
	return data, nil
}

func decodeOrDefault(raw []byte, logger *zap.Logger) *model.AppData {
	if len(raw) == 0 {
		return model.NewAppData()
	}

	data := &model.AppData{}
	if err := json.Unmarshal(raw, data); err != nil {
		logger.Warn("Stored state is malformed, starting with empty data", zap.Error(err))
		return model.NewAppData()
	}
	data.Normalize()
	return data
}

func clone(data *model.AppData) (*model.AppData, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("copy state: %w", err)
	}
	out := &model.AppData{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("copy state: %w", err)
	}
	out.Normalize()
	return out, nil
}
