package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	Port    int
	GinMode string

	// MongoDB
	MongoURI      string
	MongoDatabase string

	// Redis, only used by the view claim guard
	RedisAddr string
	RedisPass string
	RedisDB   int

	// Views
	ViewGuardEnabled bool
	ViewCooldown     time.Duration
	ViewHistoryDays  int

	RequestTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the process environment only
func FromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return nil, err
	}
	cfg.GinMode = getEnv("GIN_MODE", "release")

	cfg.MongoURI = getEnv("MONGODB_URI", "")
	cfg.MongoDatabase = getEnv("MONGODB_DATABASE", "blog")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "127.0.0.1:6379")
	cfg.RedisPass = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if cfg.ViewGuardEnabled, err = getBool("VIEW_GUARD_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.ViewCooldown, err = getDuration("VIEW_COOLDOWN", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ViewHistoryDays, err = getInt("VIEW_HISTORY_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("missing MONGODB_URI")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", cfg.Port)
	}
	if cfg.ViewCooldown <= 0 {
		return nil, fmt.Errorf("VIEW_COOLDOWN must be positive, got %s", cfg.ViewCooldown)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.ViewHistoryDays <= 0 {
		cfg.ViewHistoryDays = 30
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int env %s=%q: %w", k, v, err)
	}
	return i, nil
}

func getBool(k string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean env %s=%q", k, v)
	}
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration env %s=%q: %w", k, v, err)
	}
	return d, nil
}
