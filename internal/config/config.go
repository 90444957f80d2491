// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store selects the storage backend. Commands that only touch the database
// load it on its own with StoreFromEnv.
type Store struct {
	DBDriver    string
	DBPath      string
	DatabaseURL string
}

// Config holds server settings.
type Config struct {
	Store
	Port      int
	JWTSecret string
	JWTTTL    time.Duration
	TxRetries int
	LogLevel  string
}

// StoreFromEnv reads and validates only the storage settings.
func StoreFromEnv() (*Store, error) {
	s := storeFromEnv()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func storeFromEnv() Store {
	return Store{
		DBDriver:    getEnv("DB_DRIVER", DriverSQLite),
		DBPath:      getEnv("DB_PATH", "./data/coverwise.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

// Validate checks that the selected driver has what it needs.
func (s *Store) Validate() error {
	switch s.DBDriver {
	case DriverSQLite:
		if s.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if s.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", s.DBDriver)
	}
	return nil
}

// FromEnv reads the configuration, applying defaults for unset variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Store:     storeFromEnv(),
		JWTSecret: os.Getenv("JWT_SECRET"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(getEnv("PORT", "8080")); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.TxRetries, err = strconv.Atoi(getEnv("TX_RETRIES", "5")); err != nil {
		return nil, fmt.Errorf("invalid TX_RETRIES: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are consistent.
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.TxRetries < 0 {
		return errors.New("TX_RETRIES must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
