package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr      = ":8080"
	DefaultCacheSize = 128
	DefaultLogLevel  = "info"
)

// Config holds the runtime settings for the formrules service and CLI.
type Config struct {
	Addr      string
	FormsDir  string
	CacheSize int
	LogLevel  string
	Redis     RedisConfig
}

// RedisConfig selects the Redis definition store. Enabled is false when no
// address is configured, in which case definitions live in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win over
// the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// LoadFile reads settings from an explicit env file layered under the
// process environment.
func LoadFile(path string) (*Config, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return FromEnv(func(key string) string {
		return firstNonEmpty(os.Getenv(key), values[key])
	})
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}

	cfg := &Config{
		Addr:     normalizeAddr(firstNonEmpty(get("FORMRULES_ADDR"), get("PORT"), DefaultAddr)),
		FormsDir: get("FORMRULES_FORMS_DIR"),
		LogLevel: firstNonEmpty(get("FORMRULES_LOG_LEVEL"), DefaultLogLevel),
		Redis: RedisConfig{
			Addr:     get("FORMRULES_REDIS_ADDR"),
			Password: getenv("FORMRULES_REDIS_PASSWORD"),
			Prefix:   get("FORMRULES_REDIS_PREFIX"),
		},
	}

	size, err := intValue(get("FORMRULES_CACHE_SIZE"), DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("config: FORMRULES_CACHE_SIZE: %w", err)
	}
	cfg.CacheSize = size

	db, err := intValue(get("FORMRULES_REDIS_DB"), 0)
	if err != nil {
		return nil, fmt.Errorf("config: FORMRULES_REDIS_DB: %w", err)
	}
	if db < 0 {
		return nil, fmt.Errorf("config: FORMRULES_REDIS_DB must not be negative")
	}
	cfg.Redis.DB = db

	return cfg, nil
}

func normalizeAddr(addr string) string {
	if addr == "" || strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}

func intValue(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
