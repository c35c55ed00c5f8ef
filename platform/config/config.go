// Package config provides application configuration loaded from the
// environment. This is part of the platform layer and contains no business
// logic. Modules consume narrow capability interfaces instead of the full
// Config struct.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig exposes database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig exposes HTTP server settings.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetCORSAllowAll() bool
}

// JWTConfig exposes token verification settings for the auth middleware.
// Token issuance is handled by an external identity service.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// SchedulerConfig exposes background job settings.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// RoutingConfig exposes vendor scoring settings.
type RoutingConfig interface {
	GetScoringWeights() ScoringWeights
}

// SeverityConfig exposes escalation rule settings.
type SeverityConfig interface {
	GetSeverityRulesPath() string
}

// ScoringWeights holds the relative importance of each vendor scoring factor.
// Weights are multipliers applied to normalized factor scores in [0,1].
type ScoringWeights struct {
	Performance   float64
	Workload      float64
	Specialty     float64
	Cost          float64
	Proximity     float64
	Certification float64
}

// Config holds all application configuration.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTAccessSecret string

	CORSAllowAll bool
	CORSOrigins  []string

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int

	SeverityRulesPath string

	ScoringWeights ScoringWeights

	RateLimitRPS   float64
	RateLimitBurst int

	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, consulting a .env file when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTAccessSecret:   os.Getenv("JWT_ACCESS_SECRET"),
		RedisURL:          os.Getenv("REDIS_URL"),
		RedisTLSInsecure:  getEnvBool("REDIS_TLS_INSECURE", false),
		AsynqQueueName:    getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:  getEnvInt("ASYNQ_CONCURRENCY", 10),
		SeverityRulesPath: os.Getenv("SEVERITY_RULES_PATH"),
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 40),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	cfg.CORSAllowAll = getEnvBool("CORS_ALLOW_ALL", strings.EqualFold(cfg.Env, "development"))
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, trimmed)
			}
		}
	}

	cfg.ScoringWeights = ScoringWeights{
		Performance:   getEnvFloat("SCORING_WEIGHT_PERFORMANCE", 0.3),
		Workload:      getEnvFloat("SCORING_WEIGHT_WORKLOAD", 0.2),
		Specialty:     getEnvFloat("SCORING_WEIGHT_SPECIALTY", 0.2),
		Cost:          getEnvFloat("SCORING_WEIGHT_COST", 0.1),
		Proximity:     getEnvFloat("SCORING_WEIGHT_PROXIMITY", 0.1),
		Certification: getEnvFloat("SCORING_WEIGHT_CERTIFICATION", 0.1),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" && !strings.EqualFold(cfg.Env, "development") {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required outside development")
	}

	return cfg, nil
}

// DatabaseConfig implementation.
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation.
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }

// JWTConfig implementation.
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// SchedulerConfig implementation.
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// RoutingConfig implementation.
func (c *Config) GetScoringWeights() ScoringWeights { return c.ScoringWeights }

// SeverityConfig implementation.
func (c *Config) GetSeverityRulesPath() string { return c.SeverityRulesPath }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
