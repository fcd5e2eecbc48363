package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	LogLevel       string
	Port           string
	DBType         string
	DBDSN          string
	DataFile       string
	SessionSecret  string
	SessionTTL     time.Duration
	AuthMode       string
	AuthServiceURL string
	Timezone       string
	CORSOrigins    []string
}

var (
	cfg     *Config
	loadErr error
	once    sync.Once
)

// Load reads .env (if present) and the environment once per process.
func Load() (*Config, error) {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			loadErr = fmt.Errorf("config: reading .env: %w", err)
			return
		}
		cfg, loadErr = FromEnv()
	})
	return cfg, loadErr
}

// FromEnv builds and validates a Config from the current environment.
func FromEnv() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("config: SESSION_TTL: %w", err)
	}
	c := &Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8088"),
		DBType:         getEnv("STORAGE_BACKEND", "file"),
		DBDSN:          getEnv("POSTGRES_DSN", ""),
		DataFile:       getEnv("DATA_FILE", "data/devtrack.json"),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		SessionTTL:     ttl,
		AuthMode:       getEnv("AUTH_MODE", "local"),
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", ""),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}
	if c.Env == "development" && c.SessionSecret == "" {
		c.SessionSecret = "dev-secret-change-me"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.DBType != "file" && c.DBType != "postgres" {
		return errors.New("STORAGE_BACKEND must be one of: file, postgres")
	}
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	switch c.AuthMode {
	case "local":
		if c.SessionSecret == "" {
			return errors.New("SESSION_SECRET is required when AUTH_MODE=local")
		}
	case "remote":
		if c.AuthServiceURL == "" {
			return errors.New("AUTH_SERVICE_URL is required when AUTH_MODE=remote")
		}
	default:
		return errors.New("AUTH_MODE must be one of: local, remote")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location is the timezone calendar days are computed in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
