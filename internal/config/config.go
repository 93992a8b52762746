package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres  = "postgres"
	StorageFirestore = "firestore"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`

	Timezone       string `mapstructure:"TIMEZONE"`
	Location       *time.Location
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`
	LogFile        string `mapstructure:"LOG_FILE"`

	// Источник постов, клиентов и таймслотов. Операторы и история всегда в PostgreSQL.
	StorageBackend          string `mapstructure:"STORAGE_BACKEND"`
	AgencyID                string `mapstructure:"AGENCY_ID"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`
	RefreshInterval time.Duration `mapstructure:"REFRESH_INTERVAL"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:                   os.Getenv("DB_DSN"),
		TelegramToken:           os.Getenv("TELEGRAM_TOKEN"),
		Environment:             os.Getenv("ENV"),
		Timezone:                os.Getenv("TIMEZONE"),
		MigrationsPath:          os.Getenv("MIGRATIONS_PATH"),
		LogFile:                 os.Getenv("LOG_FILE"),
		StorageBackend:          os.Getenv("STORAGE_BACKEND"),
		AgencyID:                os.Getenv("AGENCY_ID"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = StoragePostgres
	}
	if cfg.AgencyID == "" {
		cfg.AgencyID = "agency1"
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = durationEnv("REFRESH_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	switch cfg.StorageBackend {
	case StoragePostgres:
	case StorageFirestore:
		if cfg.FirebaseProjectID == "" {
			return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required for firestore storage")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}
