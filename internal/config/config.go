// Package config handles application configuration loading. Values come
// from environment variables, falling back to an optional YAML file and
// then to development defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible), used only as the rate limit backend
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// HTTP surface
	CORSOrigins      []string
	RateLimitBackend string // "memory" or "valkey"
	RateLimitWrites  int    // write requests per client per window, 0 disables
	RateLimitWindow  time.Duration

	// Error translation
	ErrorThreshold int
	ErrorDetails   bool
}

// fileConfig is the layout of the optional YAML config file.
type fileConfig struct {
	App struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"app"`
	Postgres struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DB       string `yaml:"db"`
	} `yaml:"postgres"`
	Valkey struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
	} `yaml:"valkey"`
	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`
	RateLimit struct {
		Backend string `yaml:"backend"`
		Writes  string `yaml:"writes"`
		Window  string `yaml:"window"`
	} `yaml:"rate_limit"`
	Errors struct {
		Threshold string `yaml:"threshold"`
		Details   string `yaml:"details"`
	} `yaml:"errors"`
}

// values flattens the file into the environment variable names it backs.
func (f *fileConfig) values() map[string]string {
	return map[string]string{
		"APP_HOST":           f.App.Host,
		"APP_PORT":           f.App.Port,
		"APP_ENV":            f.App.Env,
		"POSTGRES_HOST":      f.Postgres.Host,
		"POSTGRES_PORT":      f.Postgres.Port,
		"POSTGRES_USER":      f.Postgres.User,
		"POSTGRES_PASSWORD":  f.Postgres.Password,
		"POSTGRES_DB":        f.Postgres.DB,
		"VALKEY_HOST":        f.Valkey.Host,
		"VALKEY_PORT":        f.Valkey.Port,
		"VALKEY_PASSWORD":    f.Valkey.Password,
		"CORS_ORIGINS":       strings.Join(f.CORS.Origins, ","),
		"RATE_LIMIT_BACKEND": f.RateLimit.Backend,
		"RATE_LIMIT_WRITES":  f.RateLimit.Writes,
		"RATE_LIMIT_WINDOW":  f.RateLimit.Window,
		"ERROR_THRESHOLD":    f.Errors.Threshold,
		"ERROR_DETAILS":      f.Errors.Details,
	}
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables, then the YAML file
// at path when path is not empty, then defaults. Returns an error if a
// value is malformed or if critical values are missing in production mode.
func Load(path string) (*Config, error) {
	file := map[string]string{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		file = fc.values()
	}
	get := func(key, fallback string) string {
		return envOrDefault(key, valueOrDefault(file[key], fallback))
	}

	cfg := &Config{
		Host: get("APP_HOST", "0.0.0.0"),
		Port: get("APP_PORT", "8080"),
		Env:  get("APP_ENV", "development"),

		DBHost:     get("POSTGRES_HOST", "localhost"),
		DBPort:     get("POSTGRES_PORT", "5432"),
		DBUser:     get("POSTGRES_USER", "medshop"),
		DBPassword: get("POSTGRES_PASSWORD", "changeme"),
		DBName:     get("POSTGRES_DB", "medshop"),

		ValkeyHost:     get("VALKEY_HOST", "localhost"),
		ValkeyPort:     get("VALKEY_PORT", "6379"),
		ValkeyPassword: get("VALKEY_PASSWORD", ""),

		CORSOrigins:      splitList(get("CORS_ORIGINS", "*")),
		RateLimitBackend: get("RATE_LIMIT_BACKEND", "memory"),
	}

	var err error
	if cfg.RateLimitWrites, err = strconv.Atoi(get("RATE_LIMIT_WRITES", "30")); err != nil || cfg.RateLimitWrites < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WRITES must be a non-negative integer")
	}
	if cfg.RateLimitWindow, err = time.ParseDuration(get("RATE_LIMIT_WINDOW", "1m")); err != nil || cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be a positive duration such as 30s or 1m")
	}
	if cfg.ErrorThreshold, err = strconv.Atoi(get("ERROR_THRESHOLD", "50000")); err != nil || cfg.ErrorThreshold <= 0 {
		return nil, fmt.Errorf("ERROR_THRESHOLD must be a positive integer")
	}
	if cfg.ErrorDetails, err = strconv.ParseBool(get("ERROR_DETAILS", "true")); err != nil {
		return nil, fmt.Errorf("ERROR_DETAILS must be true or false")
	}

	switch cfg.RateLimitBackend {
	case "memory", "valkey":
	default:
		return nil, fmt.Errorf("RATE_LIMIT_BACKEND must be memory or valkey, got %q", cfg.RateLimitBackend)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func valueOrDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated list, dropping empty items.
func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}
