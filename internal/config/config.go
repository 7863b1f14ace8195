// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	AppEnv   string
	HTTPPort string
	LogLevel string

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret   string
	JWTIssuer   string
	JWTTokenTTL time.Duration

	// Duration the dashboard summary is served from cache.
	ReportCacheTTL time.Duration
}

// Load reads configuration from environment variables (and an optional
// .env-style config file) with sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ISSUER", "dukapos")
	v.SetDefault("JWT_TOKEN_TTL", "12h")
	v.SetDefault("REPORT_CACHE_TTL", "60s")

	// .env is optional; environment variables are the source of truth.
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:         v.GetString("APP_ENV"),
		HTTPPort:       v.GetString("APP_PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBMaxConns:     v.GetInt32("DB_MAX_CONNS"),
		DBMinConns:     v.GetInt32("DB_MIN_CONNS"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		JWTTokenTTL:    v.GetDuration("JWT_TOKEN_TTL"),
		ReportCacheTTL: v.GetDuration("REPORT_CACHE_TTL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
