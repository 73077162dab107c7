package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Environment string // ENV: production, development, etc.
	Port        string
	LogLevel    string

	StoreDriver   string // STORE_DRIVER: mongo, postgres or memory
	MongoURI      string
	MongoDatabase string // empty means take it from MongoURI
	PostgresURI   string
	RedisURI      string // optional; login throttling falls back to memory

	JWTSecret string
	TokenTTL  time.Duration

	AllowedOrigins []string

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

func Load() *Config {
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:1234"}
	}

	return &Config{
		Environment:     strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		StoreDriver:     strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMongo))),
		MongoURI:        getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/myflix")),
		MongoDatabase:   getEnv("MONGODB_DATABASE", ""),
		PostgresURI:     getEnv("POSTGRES_URI", "postgres://localhost:5432/myflix?sslmode=disable"),
		RedisURI:        getEnv("REDIS_URI", ""),
		JWTSecret:       getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:        getDuration("TOKEN_TTL", 7*24*time.Hour),
		AllowedOrigins:  allowedOrigins,
		LoginRateLimit:  getInt("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow: getDuration("LOGIN_RATE_WINDOW", time.Minute),
	}
}

// Validate reports every setting the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case StoreMongo, StorePostgres, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of mongo, postgres, memory", c.StoreDriver))
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	} else if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.LoginRateLimit <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT must be positive"))
	}
	if c.LoginRateWindow <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_WINDOW must be positive"))
	}

	return errors.Join(errs...)
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Malformed numbers and durations fall back to the default and are
// reported by Validate only when the default itself is unusable.
func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return defaultValue
}
