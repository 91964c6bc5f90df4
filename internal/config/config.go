package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config настройки процесса. Источник — переменные окружения,
// локально их подкладывает .env
type Config struct {
	BotToken    string `validate:"required"`
	DBDSN       string `validate:"required"`
	Environment string `validate:"oneof=development production"`

	// Админский HTTP API промокодов
	AdminAddr  string `validate:"required"`
	AdminToken string `validate:"required"`

	MigrationsDir   string `validate:"required"`
	DefaultTimezone string `validate:"required"`

	// Цена подписки в рублях, к ней применяются промокоды
	SubscriptionPrice int `validate:"min=1"`
}

func Load() (*Config, error) {
	// .env нужен только локально, в проде переменные приходят из окружения
	_ = godotenv.Load(".env")

	cfg := &Config{
		BotToken:          os.Getenv("BOT_TOKEN"),
		DBDSN:             os.Getenv("DB_DSN"),
		Environment:       getEnv("ENV", "development"),
		AdminAddr:         getEnv("ADMIN_ADDR", ":8081"),
		AdminToken:        os.Getenv("ADMIN_TOKEN"),
		MigrationsDir:     getEnv("MIGRATIONS_DIR", "migrations"),
		DefaultTimezone:   getEnv("DEFAULT_TIMEZONE", "Europe/Moscow"),
		SubscriptionPrice: 990,
	}

	if raw := os.Getenv("SUBSCRIPTION_PRICE"); raw != "" {
		price, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse SUBSCRIPTION_PRICE: %w", err)
		}
		cfg.SubscriptionPrice = price
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
