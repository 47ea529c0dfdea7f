package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// CredentialBackend selects where the signed credential is persisted.
type CredentialBackend string

const (
	CredentialBackendFile  CredentialBackend = "file"
	CredentialBackendRedis CredentialBackend = "redis"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App        AppConfig
	Desk       DeskConfig
	Credential CredentialConfig
	Redis      RedisConfig
	Logger     LoggerConfig
}

// AppConfig controls console level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// DeskConfig holds remote desk service connection values.
type DeskConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
}

// CredentialConfig selects and parameterizes the credential store.
type CredentialConfig struct {
	Backend CredentialBackend
	// FilePath is where the file backend keeps the credential slot.
	FilePath string
	// RedisKey names the single slot used by the redis backend.
	RedisKey string
}

// RedisConfig holds Redis connection values for the shared-profile
// credential backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior. The TUI owns stdout, so
// logs go to a file.
type LoggerConfig struct {
	Level string
	File  string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := CredentialBackend(getEnv("CREDENTIAL_BACKEND", string(CredentialBackendFile)))
	switch backend {
	case CredentialBackendFile, CredentialBackendRedis:
	default:
		return nil, fmt.Errorf("invalid CREDENTIAL_BACKEND: %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "desk-console"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Desk: DeskConfig{
			BaseURL:               getEnv("DESK_BASE_URL", "http://127.0.0.1:8080"),
			RequestTimeoutSeconds: getEnvAsInt("DESK_REQUEST_TIMEOUT_SECONDS", 15),
		},
		Credential: CredentialConfig{
			Backend:  backend,
			FilePath: getEnv("CREDENTIAL_FILE", defaultCredentialPath()),
			RedisKey: getEnv("CREDENTIAL_REDIS_KEY", "desk-console:credential"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", defaultLogPath()),
		},
	}

	return cfg, nil
}

// RequestTimeout returns the configured desk request timeout duration.
func (d DeskConfig) RequestTimeout() time.Duration {
	if d.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(d.RequestTimeoutSeconds) * time.Second
}

func defaultCredentialPath() string {
	return filepath.Join(stateDir(), "credential")
}

func defaultLogPath() string {
	return filepath.Join(stateDir(), "console.log")
}

func stateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "desk-console")
	}
	return ".desk-console"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
