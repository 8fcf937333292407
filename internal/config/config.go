package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config keeps runtime settings for the planner.
type Config struct {
	DatabaseURL   string        `yaml:"database_url"`
	TelegramToken string        `yaml:"telegram_token"`
	DigestTime    string        `yaml:"digest_time"`
	DigestWindow  time.Duration `yaml:"-"`

	DigestWindowDays int `yaml:"digest_window_days"`
}

// Load reads configuration from an optional YAML file named by
// PLANNER_CONFIG, then overrides with environment variables, with sane
// defaults underneath.
func Load() (Config, error) {
	var cfg Config

	if path := strings.TrimSpace(os.Getenv("PLANNER_CONFIG")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")); v != "" {
		cfg.TelegramToken = v
	}
	if v := strings.TrimSpace(os.Getenv("DIGEST_TIME")); v != "" {
		cfg.DigestTime = v
	}
	if v := strings.TrimSpace(os.Getenv("DIGEST_WINDOW_DAYS")); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return cfg, fmt.Errorf("DIGEST_WINDOW_DAYS must be a positive integer, got %q", v)
		}
		cfg.DigestWindowDays = days
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "project_planner.db"
	}
	if cfg.DigestTime == "" {
		cfg.DigestTime = "08:00"
	}
	if cfg.DigestWindowDays <= 0 {
		cfg.DigestWindowDays = 3
	}
	cfg.DigestWindow = time.Duration(cfg.DigestWindowDays) * 24 * time.Hour

	return cfg, nil
}
