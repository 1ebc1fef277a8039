// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// PlacesConfig provides settings for the place-discovery pipeline.
type PlacesConfig interface {
	GetOverpassURL() string
	GetNominatimURL() string
	GetPlacesUserAgent() string
	GetPlacesCacheTTL() time.Duration
	GetDefaultCenterLat() float64
	GetDefaultCenterLng() float64
	GetDefaultCenterCity() string
	GetDefaultCenterCountry() string
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	JWTAccessSecret      string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	OverpassURL          string
	NominatimURL         string
	PlacesUserAgent      string
	PlacesCacheTTL       time.Duration
	DefaultCenterLat     float64
	DefaultCenterLng     float64
	DefaultCenterCity    string
	DefaultCenterCountry string
	RedisURL             string
	RedisTLSInsecure     bool
	AsynqQueueName       string
	AsynqConcurrency     int
	EmailEnabled         bool
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	EmailFromName        string
	EmailFromAddress     string
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string  { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool { return c.DatabaseURL != "" }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// PlacesConfig implementation
func (c *Config) GetOverpassURL() string           { return c.OverpassURL }
func (c *Config) GetNominatimURL() string          { return c.NominatimURL }
func (c *Config) GetPlacesUserAgent() string       { return c.PlacesUserAgent }
func (c *Config) GetPlacesCacheTTL() time.Duration { return c.PlacesCacheTTL }
func (c *Config) GetDefaultCenterLat() float64     { return c.DefaultCenterLat }
func (c *Config) GetDefaultCenterLng() float64     { return c.DefaultCenterLng }
func (c *Config) GetDefaultCenterCity() string     { return c.DefaultCenterCity }
func (c *Config) GetDefaultCenterCountry() string  { return c.DefaultCenterCountry }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// Load reads configuration from environment variables.
// DATABASE_URL is optional: without it the service runs in compute-only mode,
// serving live aggregation results with no persistence or consumer features.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		OverpassURL:          getEnv("PLACES_OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		NominatimURL:         getEnv("PLACES_NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		PlacesUserAgent:      getEnv("PLACES_USER_AGENT", "NowMarketing/1.0"),
		PlacesCacheTTL:       mustDuration(getEnv("PLACES_CACHE_TTL", "10m")),
		DefaultCenterLat:     mustFloat(getEnv("PLACES_DEFAULT_LAT", "40.7128")),
		DefaultCenterLng:     mustFloat(getEnv("PLACES_DEFAULT_LNG", "-74.0060")),
		DefaultCenterCity:    getEnv("PLACES_DEFAULT_CITY", "New York"),
		DefaultCenterCountry: getEnv("PLACES_DEFAULT_COUNTRY", "USA"),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisTLSInsecure:     strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:     mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		EmailEnabled:         emailEnabled && smtpHost != "",
		SMTPHost:             smtpHost,
		SMTPPort:             mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFromName:        getEnv("EMAIL_FROM_NAME", "NowMarketing"),
		EmailFromAddress:     getEnv("EMAIL_FROM_ADDRESS", ""),
	}

	if cfg.PlacesCacheTTL <= 0 {
		cfg.PlacesCacheTTL = 10 * time.Minute
	}
	if cfg.IsDatabaseEnabled() && cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required when DATABASE_URL is set")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
