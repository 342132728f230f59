package config

import (
	"fmt"
	"os"
	"strconv"
)

type DbConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

func GetDbConfig() (*DbConfig, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	maxOpen, err := intFromEnv("DB_MAX_OPEN_CONNS", 5)
	if err != nil {
		return nil, err
	}
	maxIdle, err := intFromEnv("DB_MAX_IDLE_CONNS", 2)
	if err != nil {
		return nil, err
	}

	return &DbConfig{
		DSN:          dsn,
		MaxOpenConns: maxOpen,
		MaxIdleConns: maxIdle,
	}, nil
}

func intFromEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return value, nil
}
