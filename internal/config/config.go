package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the service
type Config struct {
	Port             string
	GinMode          string
	LogLevel         string
	RedisURL         string
	AdminAPIKey      string
	TMDBAPITokens    []string // 支持多个 Token 轮询
	TMDBBaseURL      string
	TMDBImageBase    string
	ImagePlaceholder string
	HTTPTimeout      time.Duration
	HeroLimit        int
}

// Load reads configuration from environment variables.
// Call Validate before using the result.
func Load() *Config {
	tokenEnv := os.Getenv("TMDB_API_TOKEN")
	if tokenEnv == "" {
		tokenEnv = os.Getenv("API_TOKEN")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		RedisURL:         os.Getenv("REDIS_URL"),
		AdminAPIKey:      os.Getenv("ADMIN_API_KEY"),
		TMDBAPITokens:    splitList(tokenEnv),
		TMDBBaseURL:      strings.TrimSuffix(os.Getenv("TMDB_BASE_URL"), "/"),
		TMDBImageBase:    strings.TrimSuffix(os.Getenv("TMDB_IMAGE_SERVICE_URL"), "/"),
		ImagePlaceholder: getEnv("TMDB_IMAGE_PLACEHOLDER", "/static/placeholder.jpg"),
		HTTPTimeout:      getDuration("HTTP_TIMEOUT", 10*time.Second),
		HeroLimit:        getInt("HERO_LIMIT", 10),
	}
}

// Validate reports every missing or malformed required setting at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.TMDBAPITokens) == 0 {
		errs = append(errs, errors.New("TMDB_API_TOKEN is required"))
	}
	if err := validateURL("TMDB_BASE_URL", c.TMDBBaseURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateURL("TMDB_IMAGE_SERVICE_URL", c.TMDBImageBase); err != nil {
		errs = append(errs, err)
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be positive"))
	}
	if c.HeroLimit < 1 {
		errs = append(errs, errors.New("HERO_LIMIT must be at least 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// MetricsEnabled reports whether a Redis URL was configured.
func (c *Config) MetricsEnabled() bool {
	return c.RedisURL != ""
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
	}
	return nil
}

func splitList(value string) []string {
	items := []string{}
	for _, p := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		return 0
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		return 0
	}
	return defaultValue
}
