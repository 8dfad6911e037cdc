package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PLANNER"

// Хранилища состояния
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	Environment      string
	LogLevel         string
	StoreBackend     string
	StatePath        string
	DBDSN            string
	StateKey         string
	TelegramToken    string
	TelegramChatID   int64
	Timezone         string
	Location         *time.Location
	ReminderInterval time.Duration
	ClockInterval    time.Duration
	// DotEnvLoaded true, если переменные были подгружены из .env
	DotEnvLoaded bool
}

// Load читает .env (если он есть), затем переменные окружения с префиксом PLANNER_
func Load(dotEnvPath string) (*Config, error) {
	loaded := false
	if dotEnvPath != "" {
		err := godotenv.Load(dotEnvPath)
		switch {
		case err == nil:
			loaded = true
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("load %s: %w", dotEnvPath, err)
		}
	}

	cfg, err := FromViper(newViper())
	if err != nil {
		return nil, err
	}
	cfg.DotEnvLoaded = loaded
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("STORE_BACKEND", BackendFile)
	v.SetDefault("STATE_PATH", "data/state.json")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("STATE_KEY", "liceuAppData")
	v.SetDefault("TELEGRAM_TOKEN", "")
	v.SetDefault("TELEGRAM_CHAT_ID", 0)
	v.SetDefault("TIMEZONE", "Africa/Luanda")
	v.SetDefault("REMINDER_INTERVAL", time.Minute)
	v.SetDefault("CLOCK_INTERVAL", time.Second)
	return v
}

// FromViper собирает конфигурацию из уже настроенного viper
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment:      v.GetString("ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		StoreBackend:     v.GetString("STORE_BACKEND"),
		StatePath:        v.GetString("STATE_PATH"),
		DBDSN:            v.GetString("DB_DSN"),
		StateKey:         v.GetString("STATE_KEY"),
		TelegramToken:    v.GetString("TELEGRAM_TOKEN"),
		TelegramChatID:   v.GetInt64("TELEGRAM_CHAT_ID"),
		Timezone:         v.GetString("TIMEZONE"),
		ReminderInterval: v.GetDuration("REMINDER_INTERVAL"),
		ClockInterval:    v.GetDuration("CLOCK_INTERVAL"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFile:
		if c.StatePath == "" {
			return fmt.Errorf("STATE_PATH is required for the file backend")
		}
	case BackendPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.ReminderInterval < time.Second {
		return fmt.Errorf("REMINDER_INTERVAL must be at least 1s, got %s", c.ReminderInterval)
	}
	// напоминания сравниваются с точностью до минуты
	if c.ReminderInterval > time.Minute {
		return fmt.Errorf("REMINDER_INTERVAL must not exceed 1m, got %s", c.ReminderInterval)
	}
	if c.ClockInterval < 0 {
		return fmt.Errorf("CLOCK_INTERVAL must not be negative")
	}
	return nil
}

// TelegramEnabled есть ли всё, чтобы запустить бота
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
