package config

import (
	"fmt"
	"os"
	"strconv"
)

// FromEnv reads the storage and server settings from environment variables:
// DATABASE_URL, REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, CACHE_TTL_SECONDS and
// PORT. Unset variables leave the field empty.
func FromEnv() (Config, error) {
	cfg := Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Port:          os.Getenv("PORT"),
	}

	var err error
	if cfg.RedisDB, err = envInt("REDIS_DB"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTLSeconds, err = envInt("CACHE_TTL_SECONDS"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envInt(key string) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be non-negative", key)
	}
	return n, nil
}
