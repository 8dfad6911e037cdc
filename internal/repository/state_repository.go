package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/study_planner/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DefaultStateKey ключ документа приложения в таблице app_state
const DefaultStateKey = "liceuAppData"

// StateRepository хранит документ приложения в PostgreSQL как jsonb
type StateRepository struct {
	*base.Repository
	key    string
	logger *zap.Logger
}

// NewStateRepository создаёт репозиторий документа с указанным ключом
func NewStateRepository(pool *pgxpool.Pool, key string, logger *zap.Logger) *StateRepository {
	if key == "" {
		key = DefaultStateKey
	}
	return &StateRepository{
		Repository: base.NewRepository(pool),
		key:        key,
		logger:     logger,
	}
}

// Load читает документ. Если строки нет, возвращает nil, nil.
func (r *StateRepository) Load(ctx context.Context) ([]byte, error) {
	query := `
		SELECT document::text
		FROM app_state
		WHERE key = $1
	`

	var document string
	err := r.QueryRow(ctx, query, r.key).Scan(&document)
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get app state: %w", err)
	}

	return []byte(document), nil
}

// Save сохраняет документ целиком (upsert по ключу)
func (r *StateRepository) Save(ctx context.Context, document []byte) error {
	query := `
		INSERT INTO app_state (key, document, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE
		SET document = EXCLUDED.document, updated_at = NOW()
	`

	affected, err := r.ExecAffected(ctx, query, r.key, string(document))
	if err != nil {
		return fmt.Errorf("save app state: %w", err)
	}

	r.logger.Debug("App state saved",
		zap.String("key", r.key),
		zap.Int("bytes", len(document)),
		zap.Int64("rows_affected", affected))

	return nil
}
