// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted in STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
)

// Config holds all configuration values for the API server and the CLI.
// Values are populated by Load or LoadLocal from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StorageBackend selects the kv backend: memory, postgres, redis or sqlite.
	StorageBackend string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// RedisURL is the Redis connection URL. Required for redis.
	RedisURL string

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string

	// JWTSecret signs bearer tokens. Required by the API server.
	JWTSecret string

	// TokenTTL is how long an issued token stays valid.
	TokenTTL time.Duration

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// GenerationTimeout bounds a single itinerary model call.
	GenerationTimeout time.Duration

	// OpenWeatherAPIKey and GoogleMapsAPIKey are optional; without them
	// weather and places answer with mock data.
	OpenWeatherAPIKey string
	GoogleMapsAPIKey  string

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	// GenerateRatePerMinute is the per-user limit on itinerary generation.
	// Zero disables limiting.
	GenerateRatePerMinute int
}

// Load reads the API server configuration from environment variables.
// Returns an error listing any required variables that are not set and any
// values that do not parse.
func Load() (Config, error) {
	cfg, problems := load(BackendPostgres, "wanderly.db")

	var missing []string
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	switch cfg.StorageBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			missing = append(missing, "REDIS_URL")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// LoadLocal reads the CLI configuration. Nothing is required; storage
// defaults to a SQLite file under the user's home directory.
func LoadLocal() (Config, error) {
	cfg, problems := load(BackendSQLite, DefaultSQLitePath())
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// DefaultSQLitePath returns $HOME/.wanderly/wanderly.db, or wanderly.db in
// the working directory when the home directory is unknown.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "wanderly.db"
	}
	return filepath.Join(home, ".wanderly", "wanderly.db")
}

func load(defaultBackend, defaultSQLite string) (Config, []string) {
	var problems []string
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", defaultBackend)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		SQLitePath:        getEnv("SQLITE_PATH", defaultSQLite),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4-turbo-preview"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendPostgres, BackendRedis, BackendSQLite:
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_BACKEND %q is not one of memory, postgres, redis, sqlite", cfg.StorageBackend))
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		problems = append(problems, err.Error())
	}
	if cfg.GenerationTimeout, err = getDuration("GENERATION_TIMEOUT", 45*time.Second); err != nil {
		problems = append(problems, err.Error())
	}
	maxBody, err := getInt("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		problems = append(problems, err.Error())
	}
	cfg.MaxBodyBytes = int64(maxBody)
	if cfg.GenerateRatePerMinute, err = getInt("GENERATE_RATE_PER_MINUTE", 10); err != nil {
		problems = append(problems, err.Error())
	}
	return cfg, problems
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
