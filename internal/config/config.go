package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Events    EventsConfig    `mapstructure:"events"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Supported task store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects and configures the task store.
// The memory driver keeps tasks in process; the postgres driver requires URL.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"            validate:"required,oneof=memory postgres"`
	URL             string        `mapstructure:"url"               validate:"required_if=Driver postgres,omitempty,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Interval     time.Duration `mapstructure:"interval"      validate:"required_if=Enabled true"`
	Burst        int           `mapstructure:"burst"         validate:"required_if=Enabled true,gte=0"`
	CacheSize    int           `mapstructure:"cache_size"    validate:"required_if=Enabled true,gte=0"`
	TTL          time.Duration `mapstructure:"ttl"           validate:"required_if=Enabled true"`
	TrustHeaders bool          `mapstructure:"trust_headers"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
}

// EventsConfig controls how task events reach their handlers. When Async is
// set, events are queued and delivered by WorkerCount background workers.
type EventsConfig struct {
	Async       bool `mapstructure:"async"`
	QueueSize   int  `mapstructure:"queue_size"   validate:"required_if=Async true,gte=0"`
	WorkerCount int  `mapstructure:"worker_count" validate:"required_if=Async true,gte=0"`
}
