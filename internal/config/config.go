// Package config provides application configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string  `mapstructure:"PORT"`
	DBHost         string  `mapstructure:"DB_HOST"`
	DBPort         string  `mapstructure:"DB_PORT"`
	DBUser         string  `mapstructure:"DB_USER"`
	DBPassword     string  `mapstructure:"DB_PASSWORD"`
	DBName         string  `mapstructure:"DB_NAME"`
	DBSSLMode      string  `mapstructure:"DB_SSLMODE"`
	RedisURL       string  `mapstructure:"REDIS_URL"`
	JWTSecret      string  `mapstructure:"JWT_SECRET"`
	AllowedOrigins string  `mapstructure:"ALLOWED_ORIGINS"`
	Env            string  `mapstructure:"APP_ENV"`
	StorageTimeout int     `mapstructure:"STORAGE_TIMEOUT_MS"`
	ReconcileEvery int     `mapstructure:"RECONCILE_INTERVAL_MIN"`
	IdempotencyTTL int     `mapstructure:"IDEMPOTENCY_TTL_MIN"`
	TracingEnabled bool    `mapstructure:"TRACING_ENABLED"`
	TraceExporter  string  `mapstructure:"TRACE_EXPORTER"`
	OTLPEndpoint   string  `mapstructure:"OTLP_ENDPOINT"`
	TraceSampler   float64 `mapstructure:"TRACE_SAMPLER_RATIO"`
}

// StorageTimeoutDuration returns the bounded timeout applied to every
// storage-backed engagement operation.
func (c *Config) StorageTimeoutDuration() time.Duration {
	return time.Duration(c.StorageTimeout) * time.Millisecond
}

// ReconcileInterval returns how often the in-process reconciler runs.
// Zero disables the background pass.
func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.ReconcileEvery) * time.Minute
}

// IdempotencyTTLDuration returns how long recorded toggle outcomes are
// retained for idempotency-key replay.
func (c *Config) IdempotencyTTLDuration() time.Duration {
	return time.Duration(c.IdempotencyTTL) * time.Minute
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults cover
	// everything in development and tests.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8240")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "inkwell")
	viper.SetDefault("DB_PASSWORD", "inkwell")
	viper.SetDefault("DB_NAME", "inkwell")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("STORAGE_TIMEOUT_MS", 5000)
	viper.SetDefault("RECONCILE_INTERVAL_MIN", 10)
	viper.SetDefault("IDEMPOTENCY_TTL_MIN", 60)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACE_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACE_SAMPLER_RATIO", 0.1)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}
