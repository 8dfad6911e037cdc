package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStateRepositoryMissingFile(t *testing.T) {
	repo := NewFileStateRepository(filepath.Join(t.TempDir(), "state.json"))

	data, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStateRepositorySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	repo := NewFileStateRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []byte(`{"tasks":[]}`)))
	require.NoError(t, repo.Save(ctx, []byte(`{"tasks":[],"userName":"Ana"}`)))

	data, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[],"userName":"Ana"}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStateRepositoryReadError(t *testing.T) {
	// каталог вместо файла
	repo := NewFileStateRepository(t.TempDir())

	_, err := repo.Load(context.Background())
	assert.Error(t, err)
}
