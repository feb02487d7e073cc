package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment
type Config struct {
	Port            string
	DatabaseDSN     string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SessionSecret   string
	LogLevel        string
	GinMode         string
	SeedDemoData    bool
}

const defaultSessionSecret = "dev_fallback_secret"

// Load reads the given .env files (missing ones are skipped) and then the
// environment. Variables already set in the environment win over the files.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:          ":" + getEnv("PORT", "8080"),
		DatabaseDSN:   os.Getenv("DB_DSN"),
		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		GinMode:       os.Getenv("GIN_MODE"),
	}

	var err error
	if cfg.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return Config{}, err
	}
	if cfg.ConnMaxLifetime, err = getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.SeedDemoData, err = getBool("SEED_DEMO_DATA", false); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UsesDatabase reports whether a relational backend is configured
func (c Config) UsesDatabase() bool {
	return c.DatabaseDSN != ""
}

// UsesDefaultSecret reports whether sessions are signed with the development fallback
func (c Config) UsesDefaultSecret() bool {
	return c.SessionSecret == defaultSessionSecret
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
