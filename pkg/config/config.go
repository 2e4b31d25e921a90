package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultJWTSecret is only fit for local development
const defaultJWTSecret = "dev-jwt-secret-change-in-production"

// Storage drivers accepted by storage.driver
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Events    EventsConfig    `mapstructure:"events"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	SSE       SSEConfig       `mapstructure:"sse"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	Environment     string        `mapstructure:"environment"`
	HealthCheckPath string        `mapstructure:"health_check_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects the lecturer repository backend
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// RedisConfig holds Redis-related configuration
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// PostgresConfig holds Postgres-related configuration
type PostgresConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxConns    int32  `mapstructure:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// EventsConfig controls lecturer change events on Redis Streams
type EventsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	TopicPrefix   string `mapstructure:"topic_prefix"`
}

// AuthConfig holds authentication configuration for write routes
type AuthConfig struct {
	APIKey    string `mapstructure:"api_key"`
	JWTSecret string `mapstructure:"jwt_secret"`
	JWTIssuer string `mapstructure:"jwt_issuer"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// RateLimitConfig configures the per-process token bucket
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// SSEConfig tunes the lecturer change stream
type SSEConfig struct {
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	StaleAfter        time.Duration `mapstructure:"stale_after"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
	Encoding    string `mapstructure:"encoding"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/lecturer-service")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, continue with env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.health_check_path", "/health")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("storage.driver", StorageMemory)

	v.SetDefault("redis.url", "")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.auto_migrate", false)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.consumer_group", "lecturer-service")
	v.SetDefault("events.topic_prefix", "lecturer")

	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.jwt_secret", defaultJWTSecret)
	v.SetDefault("auth.jwt_issuer", "lms-auth")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:8080"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization", "x-api-key"})

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_second", 50)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("sse.heartbeat_interval", "30s")
	v.SetDefault("sse.stale_after", "90s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.environment", "development")
	v.SetDefault("log.encoding", "console")
}

// validateConfig validates the loaded configuration
func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}

	switch cfg.Storage.Driver {
	case StorageMemory:
	case StorageRedis:
		if cfg.Redis.URL == "" {
			return fmt.Errorf("redis url is required for storage driver %q", cfg.Storage.Driver)
		}
	case StoragePostgres:
		if cfg.Postgres.DSN == "" {
			return fmt.Errorf("postgres dsn is required for storage driver %q", cfg.Storage.Driver)
		}
		if cfg.Postgres.MaxConns < 1 {
			return fmt.Errorf("postgres max_conns must be at least 1")
		}
	default:
		return fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}

	if cfg.Events.Enabled && cfg.Redis.URL == "" {
		return fmt.Errorf("redis url is required when events are enabled")
	}

	if cfg.Auth.APIKey == "" && len(cfg.Auth.JWTSecret) < 8 {
		return fmt.Errorf("either an API key or a JWT secret of at least 8 characters is required")
	}

	if cfg.Server.IsProduction() && cfg.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("auth.jwt_secret must be changed from the development default in production")
	}

	if cfg.SSE.HeartbeatInterval <= 0 || cfg.SSE.StaleAfter <= cfg.SSE.HeartbeatInterval {
		return fmt.Errorf("sse stale_after must exceed a positive heartbeat_interval")
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.Burst < 1) {
		return fmt.Errorf("rate limit needs a positive rate and burst")
	}

	if !contains([]string{"debug", "info", "warn", "error"}, cfg.Log.Level) {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}

	if !contains([]string{"json", "console"}, cfg.Log.Encoding) {
		return fmt.Errorf("invalid log encoding: %s", cfg.Log.Encoding)
	}

	return nil
}

// GetServerAddr returns the server address in host:port format
func (s *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction returns true if the environment is production
func (s *ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

func contains(slice []string, item string) bool {
	return slices.ContainsFunc(slice, func(s string) bool {
		return strings.EqualFold(s, item)
	})
}
