package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	SupabaseURL    string
	SupabaseKey    string
	TelegramToken  string
	ReceiptsBucket string
}

func LoadConfig() (*Config, error) {
	// .env необязателен в проде, переменные могут прийти из окружения
	_ = godotenv.Load()

	cfg := &Config{
		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		ReceiptsBucket: getEnvOrDefault("RECEIPTS_BUCKET", "receipts"),
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
