package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "http://localhost:8081/api"

func loadFile(path string, cfg *Config) error {
	filename, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", filename, err)
	}

	return nil
}

// loadDotEnv never overrides variables already set in the environment. A
// missing .env file is not an error.
func loadDotEnv() {
	_ = godotenv.Load()
}

func applyEnv(cfg *Config) error {
	cfg.API.BaseURL = getEnv("ERP_API_BASE_URL", cfg.API.BaseURL)
	cfg.Console.LoginPath = getEnv("ERP_CONSOLE_LOGIN_PATH", cfg.Console.LoginPath)
	cfg.Storage.Driver = getEnv("ERP_STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.File.Path = getEnv("ERP_STORAGE_FILE", cfg.Storage.File.Path)
	cfg.Storage.Redis.Addr = getEnv("ERP_REDIS_ADDR", cfg.Storage.Redis.Addr)
	cfg.Storage.Redis.Password = getEnv("ERP_REDIS_PASSWORD", cfg.Storage.Redis.Password)
	cfg.Storage.SQLite.DSN = getEnv("ERP_SQLITE_DSN", cfg.Storage.SQLite.DSN)
	cfg.Backend.DataPath = getEnv("ERP_BACKEND_DATA", cfg.Backend.DataPath)
	cfg.Backend.JWTSecret = getEnv("ERP_JWT_SECRET", cfg.Backend.JWTSecret)

	var err error
	if cfg.Console.Port, err = getEnvInt("ERP_CONSOLE_PORT", cfg.Console.Port); err != nil {
		return err
	}
	if cfg.Backend.Port, err = getEnvInt("ERP_BACKEND_PORT", cfg.Backend.Port); err != nil {
		return err
	}
	if cfg.Storage.Redis.DB, err = getEnvInt("ERP_REDIS_DB", cfg.Storage.Redis.DB); err != nil {
		return err
	}
	if cfg.API.Timeout, err = getEnvDuration("ERP_API_TIMEOUT", cfg.API.Timeout); err != nil {
		return err
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// NormalizeBaseURL trims trailing slashes and makes sure the URL ends in /api.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return DefaultBaseURL
	}
	if strings.HasSuffix(base, "/api") {
		return base
	}
	return base + "/api"
}
