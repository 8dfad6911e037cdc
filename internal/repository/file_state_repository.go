package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStateRepository хранит документ приложения в JSON-файле
type FileStateRepository struct {
	path string
}

// NewFileStateRepository создаёт файловый репозиторий
func NewFileStateRepository(path string) *FileStateRepository {
	return &FileStateRepository{path: path}
}

// Path путь к файлу состояния
func (r *FileStateRepository) Path() string {
	return r.path
}

// Load читает файл. Отсутствующий файл означает пустое состояние.
func (r *FileStateRepository) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return data, nil
}

// Save пишет документ во временный файл и атомарно переименовывает его
func (r *FileStateRepository) Save(_ context.Context, document []byte) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(document); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
