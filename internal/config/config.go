// Package config reads the runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	// LearnerChatID pins the bot to one chat; 0 binds to the first chat
	// that writes to it
	LearnerChatID int64

	DBType      string // sqlite, postgres or memory
	SQLitePath  string
	DatabaseURL string

	CatalogPath string
	BankPath    string
	ReportPath  string

	SessionSize int
	SettleDelay time.Duration

	ReminderHour          int
	NotificationStartHour int
	NotificationEndHour   int
	ReportInterval        time.Duration
}

// Load reads .env if present, then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DBType:        getenvDefault("DB_TYPE", "sqlite"),
		SQLitePath:    getenvDefault("SQLITE_PATH", "data/wordquest.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		CatalogPath:   getenvDefault("CATALOG_PATH", "data/lessons.json"),
		BankPath:      getenvDefault("BANK_PATH", "data/questions.json"),
		ReportPath:    getenvDefault("REPORT_PATH", "data/progress_report.xlsx"),
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("config: required environment variable TELEGRAM_BOT_TOKEN is not set")
	}

	var err error
	if cfg.LearnerChatID, err = getInt64("LEARNER_CHAT_ID", 0); err != nil {
		return nil, err
	}
	if cfg.SessionSize, err = getInt("SESSION_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.SettleDelay, err = getDuration("SETTLE_DELAY", 3500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ReminderHour, err = getHour("REMINDER_HOUR", 17); err != nil {
		return nil, err
	}
	if cfg.NotificationStartHour, err = getHour("NOTIFICATION_START_HOUR", 8); err != nil {
		return nil, err
	}
	if cfg.NotificationEndHour, err = getHour("NOTIFICATION_END_HOUR", 20); err != nil {
		return nil, err
	}
	if cfg.ReportInterval, err = getDuration("REPORT_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}

	switch cfg.DBType {
	case "sqlite", "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("config: DATABASE_URL is required when DB_TYPE=postgres")
		}
	default:
		return nil, fmt.Errorf("config: DB_TYPE=%q is not one of sqlite, postgres, memory", cfg.DBType)
	}
	if cfg.SessionSize <= 0 {
		return nil, fmt.Errorf("config: SESSION_SIZE must be positive, got %d", cfg.SessionSize)
	}

	return cfg, nil
}

// DSN returns the data source for the configured database type
func (c *Config) DSN() string {
	if c.DBType == "postgres" {
		return c.DatabaseURL
	}
	return c.SQLitePath
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number: %w", k, v, err)
	}
	return n, nil
}

func getInt64(k string, fallback int64) (int64, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number: %w", k, v, err)
	}
	return n, nil
}

func getHour(k string, fallback int) (int, error) {
	h, err := getInt(k, fallback)
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("config: %s=%d is not an hour of the day", k, h)
	}
	return h, nil
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}
