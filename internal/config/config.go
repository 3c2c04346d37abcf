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
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	CallerSourceBody   = "body"
	CallerSourceBearer = "bearer"
)

type Config struct {
	Port               string
	AppVersion         string
	DBDriver           string
	DatabaseURL        string
	RedisAddress       string
	RedisPassword      string
	CORSAllowedOrigins []string
	CallerSource       string
	SeedDefaultUsers   bool
	SeedFile           string
	WriteRateLimit     float64
	LoginMaxAttempts   int
	LoginLockout       time.Duration
	Log                LogConfig
}

// Load reads the API configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             getEnv("PORT", "3001"),
		AppVersion:       getEnv("APP_VERSION", "dev"),
		DBDriver:         getEnv("DB_DRIVER", DriverSQLite),
		RedisAddress:     os.Getenv("REDIS_ADDRESS"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		CallerSource:     getEnv("CALLER_SOURCE", CallerSourceBody),
		SeedFile:         os.Getenv("SEED_FILE"),
		LoginLockout:     15 * time.Minute,
		LoginMaxAttempts: 5,
		SeedDefaultUsers: true,
		Log:              loadLogConfig(),
	}

	var err error
	if cfg.DatabaseURL, err = databaseURL(cfg.DBDriver); err != nil {
		return nil, err
	}

	switch cfg.CallerSource {
	case CallerSourceBody, CallerSourceBearer:
	default:
		return nil, fmt.Errorf("CALLER_SOURCE must be %q or %q, got %q", CallerSourceBody, CallerSourceBearer, cfg.CallerSource)
	}

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	if v := os.Getenv("SEED_DEFAULT_USERS"); v != "" {
		if cfg.SeedDefaultUsers, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("SEED_DEFAULT_USERS: %w", err)
		}
	}
	if v := os.Getenv("WRITE_RATE_LIMIT"); v != "" {
		if cfg.WriteRateLimit, err = strconv.ParseFloat(v, 64); err != nil || cfg.WriteRateLimit < 0 {
			return nil, fmt.Errorf("WRITE_RATE_LIMIT must be a non-negative number, got %q", v)
		}
	}
	if v := os.Getenv("LOGIN_MAX_ATTEMPTS"); v != "" {
		if cfg.LoginMaxAttempts, err = strconv.Atoi(v); err != nil || cfg.LoginMaxAttempts < 1 {
			return nil, fmt.Errorf("LOGIN_MAX_ATTEMPTS must be a positive integer, got %q", v)
		}
	}
	if v := os.Getenv("LOGIN_LOCKOUT"); v != "" {
		if cfg.LoginLockout, err = time.ParseDuration(v); err != nil || cfg.LoginLockout <= 0 {
			return nil, fmt.Errorf("LOGIN_LOCKOUT must be a positive duration, got %q", v)
		}
	}

	return cfg, nil
}

func databaseURL(driver string) (string, error) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = "campus-hub.db"
		}
	case DriverPostgres:
		if dsn == "" {
			return "", errors.New("DB_CONNECTION_STRING environment variable is required for postgres")
		}
	default:
		return "", fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, driver)
	}
	return dsn, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
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
