package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig читает .env, YAML поверх значений по умолчанию и переменные окружения.
// Отсутствующий файл конфига не ошибка: работаем на Default().
func LoadConfig(filePath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg := Default()

	file, err := os.Open(filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("Config file %s not found, using defaults", filePath)
	case err != nil:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	default:
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				// Логируем ошибку, но не возвращаем — иначе перезапишем основную ошибку
				log.Printf("Warning: failed to close config file: %v", closeErr)
			}
		}()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}

// applyEnv переопределяет отдельные поля из окружения (в т.ч. из .env)
func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("SCRAPER_BROWSER_BIN")); v != "" {
		cfg.Browser.BinPath = v
	}
	if v := strings.TrimSpace(os.Getenv("SCRAPER_HEADLESS")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SCRAPER_HEADLESS: %w", err)
		}
		cfg.Browser.Headless = b
	}
	if v := strings.TrimSpace(os.Getenv("SCRAPER_LOG_LEVEL")); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("SCRAPER_DEBUG_SNAPSHOTS")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SCRAPER_DEBUG_SNAPSHOTS: %w", err)
		}
		cfg.Jobs.DebugSnapshots = b
	}
	if v := strings.TrimSpace(os.Getenv("SCRAPER_STORAGE_DSN")); v != "" {
		cfg.Storage.DSN = v
	}
	return nil
}
