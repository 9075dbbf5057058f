// Package config loads service configuration from the environment.
//
// The service is configured exclusively through environment variables,
// with precedence ENV > defaults. SITE_ID is the only required variable.
package config

import (
	"fmt"
	"net/url"
)

// SiteIDLen is the maximum length of the site_id column.
const SiteIDLen = 16

// Config holds the full application configuration.
type Config struct {
	// SiteID names where the service is running ("summit", "base", ...).
	SiteID string

	// Database connection parameters.
	DB DBConfig

	// ListenAddr is the API listen address.
	ListenAddr string

	// MetricsAddr is the Prometheus listen address; empty disables metrics.
	MetricsAddr string

	// LogLevel is the zerolog level name.
	LogLevel string

	// Rate limiting for the API listener.
	RateLimitEnabled bool
	RateLimitRPM     int

	// Tracing configuration (disabled by default).
	TracingEnabled  bool
	TracingExporter string // "grpc" or "http"
	TracingEndpoint string
	TracingSampling float64

	// Environment is the deployment environment label for telemetry.
	Environment string
}

// DBConfig holds the night report database connection parameters.
type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
}

// URL assembles a postgres connection URL. The password is URL-escaped so
// special characters survive.
func (c DBConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	return u.String()
}

// FromEnv reads the configuration from environment variables and
// validates it.
func FromEnv() (Config, error) {
	cfg := Config{
		SiteID: ParseString("SITE_ID", ""),
		DB: DBConfig{
			User:     ParseString("NIGHTREPORT_DB_USER", "nightreport"),
			Password: ParseString("NIGHTREPORT_DB_PASSWORD", ""),
			Host:     ParseString("NIGHTREPORT_DB_HOST", "localhost"),
			Port:     ParseInt("NIGHTREPORT_DB_PORT", 5432),
			Database: ParseString("NIGHTREPORT_DB_DATABASE", "nightreport"),
		},
		ListenAddr:       ParseString("NIGHTREPORT_LISTEN", ":8080"),
		MetricsAddr:      ParseString("NIGHTREPORT_METRICS_ADDR", ":9090"),
		LogLevel:         ParseString("LOG_LEVEL", "info"),
		RateLimitEnabled: ParseBool("NIGHTREPORT_RATE_LIMIT_ENABLED", false),
		RateLimitRPM:     ParseInt("NIGHTREPORT_RATE_LIMIT_RPM", 600),
		TracingEnabled:   ParseBool("NIGHTREPORT_TRACING_ENABLED", false),
		TracingExporter:  ParseString("NIGHTREPORT_TRACING_EXPORTER", "grpc"),
		TracingEndpoint:  ParseString("NIGHTREPORT_TRACING_ENDPOINT", "localhost:4317"),
		TracingSampling:  ParseFloat("NIGHTREPORT_TRACING_SAMPLING", 1.0),
		Environment:      ParseString("NIGHTREPORT_ENVIRONMENT", "development"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise surface as runtime
// failures long after startup.
func (c Config) Validate() error {
	if c.SiteID == "" {
		return fmt.Errorf("you must specify environment variable SITE_ID")
	}
	if len(c.SiteID) > SiteIDLen {
		return fmt.Errorf("SITE_ID=%q too long; max length=%d", c.SiteID, SiteIDLen)
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		return fmt.Errorf("invalid NIGHTREPORT_DB_PORT=%d", c.DB.Port)
	}
	if c.RateLimitEnabled && c.RateLimitRPM <= 0 {
		return fmt.Errorf("NIGHTREPORT_RATE_LIMIT_RPM must be positive when rate limiting is enabled")
	}
	return nil
}
