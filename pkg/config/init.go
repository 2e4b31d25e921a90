package config

import (
	"fmt"

	"github.com/danghamo/lecturer-service/pkg/logger"
)

// Initialize loads configuration and sets up global logger
func Initialize() (*Config, *logger.Logger, error) {
	cfg, err := Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.SetGlobalLogger(appLogger)

	appLogger.WithFields(map[string]interface{}{
		"environment":    cfg.Server.Environment,
		"server_port":    cfg.Server.Port,
		"storage_driver": cfg.Storage.Driver,
		"events_enabled": cfg.Events.Enabled,
		"log_level":      cfg.Log.Level,
		"log_encoding":   cfg.Log.Encoding,
	}).Info("Configuration and logger initialized successfully")

	return cfg, appLogger, nil
}

// NewLogger builds a logger from the log section
func NewLogger(cfg *Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Log.Level),
		Environment: cfg.Log.Environment,
		Encoding:    cfg.Log.Encoding,
	})
}
