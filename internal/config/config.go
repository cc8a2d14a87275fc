package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingSetting is returned by Load when a required setting is unset.
var ErrMissingSetting = errors.New("required setting is missing")

// Config holds all configuration for the movie discovery API.
type Config struct {
	DB        DBConfig
	Redis     RedisConfig
	TMDB      TMDBConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Port      string
	// CORSAllowOrigins lists the browser origins allowed to call the API.
	CORSAllowOrigins []string
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	URL         string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string. A full URL takes precedence
// over the individual fields.
func (d DBConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
}

// JWTConfig holds bearer token signing settings.
type JWTConfig struct {
	Key      string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// RateLimitConfig bounds requests per client IP on the auth endpoints.
type RateLimitConfig struct {
	Max           int
	WindowSeconds int
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string
	File  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rateLimitMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "20"))
	rateLimitWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	tmdbTimeout, err := time.ParseDuration(getEnv("TMDB_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TMDB_TIMEOUT: %w", err)
	}

	cfg := &Config{
		DB: DBConfig{
			URL:         getEnv("DATABASE_URL", ""),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "movie_discovery"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			BaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/"),
			Timeout:      tmdbTimeout,
		},
		JWT: JWTConfig{
			Key:      getEnv("JWT_KEY", ""),
			Issuer:   getEnv("JWT_ISSUER", ""),
			Audience: getEnv("JWT_AUDIENCE", ""),
			TTL:      time.Hour,
		},
		RateLimit: RateLimitConfig{
			Max:           rateLimitMax,
			WindowSeconds: rateLimitWindow,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Port:             getEnv("SERVER_PORT", "8080"),
		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := []struct {
		key, value string
	}{
		{"TMDB_API_KEY", c.TMDB.APIKey},
		{"JWT_KEY", c.JWT.Key},
		{"JWT_ISSUER", c.JWT.Issuer},
		{"JWT_AUDIENCE", c.JWT.Audience},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingSetting, r.key)
		}
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
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
