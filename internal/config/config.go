package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vytor/linguaflash/internal/logger"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	minAdminTokenLength = 16
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	StoreBackend        string
	RedisAddr           string
	RedisDB             int
	CatalogPath         string
	EnforceUnlock       bool
	Timezone            string
	DecayWorkerCount    int
	DecayQueueSize      int
	StreakSweepInterval time.Duration
	TrackerCacheSize    int
	// TrustUserHeader accepts X-User-ID as set by an authenticating proxy.
	TrustUserHeader bool
	// AdminToken guards /api/admin; empty disables those routes.
	AdminToken string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:linguaflash.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		StoreBackend:        strings.ToLower(envOr("STORE_BACKEND", BackendSQLite)),
		RedisAddr:           envOr("REDIS_ADDR", "localhost:6379"),
		RedisDB:             envIntOr("REDIS_DB", 0),
		CatalogPath:         os.Getenv("CATALOG_PATH"),
		EnforceUnlock:       envBoolOr("ENFORCE_UNLOCK", true),
		Timezone:            envOr("TIMEZONE", "Local"),
		DecayWorkerCount:    envIntOr("DECAY_WORKER_COUNT", 1),
		DecayQueueSize:      envIntOr("DECAY_QUEUE_SIZE", 64),
		StreakSweepInterval: envDurationOr("STREAK_SWEEP_INTERVAL", time.Hour),
		TrackerCacheSize:    envIntOr("TRACKER_CACHE_SIZE", 10000),
		TrustUserHeader:     envBoolOr("TRUST_USER_HEADER", false),
		AdminToken:          os.Getenv("ADMIN_TOKEN"),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q must be one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	switch c.StoreBackend {
	case BackendSQLite:
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR cannot be empty when STORE_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND %q must be %q or %q", c.StoreBackend, BackendSQLite, BackendRedis))
	}
	if c.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("REDIS_DB must be >= 0, got %d", c.RedisDB))
	}
	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); err != nil {
			errs = append(errs, fmt.Errorf("CATALOG_PATH: %w", err))
		}
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	if c.DecayWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("DECAY_WORKER_COUNT must be >= 1, got %d", c.DecayWorkerCount))
	}
	if c.DecayQueueSize < 1 {
		errs = append(errs, fmt.Errorf("DECAY_QUEUE_SIZE must be >= 1, got %d", c.DecayQueueSize))
	}
	if c.StreakSweepInterval < 0 {
		errs = append(errs, fmt.Errorf("STREAK_SWEEP_INTERVAL cannot be negative, got %v", c.StreakSweepInterval))
	}

	if c.TrackerCacheSize < 1 {
		errs = append(errs, fmt.Errorf("TRACKER_CACHE_SIZE must be >= 1, got %d", c.TrackerCacheSize))
	}
	if c.AdminToken != "" && len(c.AdminToken) < minAdminTokenLength {
		errs = append(errs, fmt.Errorf("ADMIN_TOKEN must be at least %d characters", minAdminTokenLength))
	}

	return errors.Join(errs...)
}

// Location resolves Timezone; "Local" and "" mean the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
