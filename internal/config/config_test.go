package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, time.Minute, cfg.ReminderInterval)
	assert.Equal(t, time.Second, cfg.ClockInterval)
	assert.Equal(t, "Africa/Luanda", cfg.Location.String())
	assert.False(t, cfg.DotEnvLoaded)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PLANNER_STORE_BACKEND", "postgres")
	t.Setenv("PLANNER_DB_DSN", "postgres://localhost/planner")
	t.Setenv("PLANNER_REMINDER_INTERVAL", "30s")
	t.Setenv("PLANNER_TELEGRAM_TOKEN", "token")
	t.Setenv("PLANNER_TELEGRAM_CHAT_ID", "42")
	t.Setenv("PLANNER_TIMEZONE", "UTC")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, 30*time.Second, cfg.ReminderInterval)
	assert.Equal(t, int64(42), cfg.TelegramChatID)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PLANNER_STATE_PATH=/tmp/from-dotenv.json\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PLANNER_STATE_PATH") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.DotEnvLoaded)
	assert.Equal(t, "/tmp/from-dotenv.json", cfg.StatePath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"postgres without dsn", map[string]string{"PLANNER_STORE_BACKEND": "postgres"}, "DB_DSN"},
		{"unknown backend", map[string]string{"PLANNER_STORE_BACKEND": "redis"}, "STORE_BACKEND"},
		{"tiny interval", map[string]string{"PLANNER_REMINDER_INTERVAL": "10ms"}, "REMINDER_INTERVAL"},
		{"interval above a minute", map[string]string{"PLANNER_REMINDER_INTERVAL": "5m"}, "REMINDER_INTERVAL"},
		{"bad timezone", map[string]string{"PLANNER_TIMEZONE": "Mars/Olympus"}, "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateReminderIntervalBounds(t *testing.T) {
	cfg := &Config{StoreBackend: BackendFile, StatePath: "state.json", ReminderInterval: time.Minute}
	assert.NoError(t, cfg.Validate())

	cfg.ReminderInterval = 30 * time.Second
	assert.NoError(t, cfg.Validate())

	cfg.ReminderInterval = 5 * time.Minute
	assert.ErrorContains(t, cfg.Validate(), "REMINDER_INTERVAL")
}
