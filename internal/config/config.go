package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ConfigPathEnv names a config file that overrides the search paths
const ConfigPathEnv = "ATO_BUILDER_CONFIG_PATH"

// Config holds all configuration for the CLI and daemon
type Config struct {
	Storage    StorageConfig
	Inbox      DirConfig
	Outbox     DirConfig
	Validation ValidationConfig
	Log        LogConfig
}

// StorageConfig selects and locates the ATO repository
type StorageConfig struct {
	Backend    string // json or sqlite
	JSONPath   string
	SQLitePath string
}

// DirConfig is a polled directory
type DirConfig struct {
	Dir      string
	Interval int // seconds
}

// ValidationConfig holds validation rendering settings
type ValidationConfig struct {
	Locale string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("storage.backend", "json")
	v.SetDefault("storage.json_path", "atos.json")
	v.SetDefault("storage.sqlite_path", "atos.db")
	v.SetDefault("inbox.dir", "inbox")
	v.SetDefault("inbox.interval", 30)
	v.SetDefault("outbox.dir", "outbox")
	v.SetDefault("outbox.interval", 60)
	v.SetDefault("validation.locale", "en")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("/etc/ato_builder")
	v.AddConfigPath(".")

	if configPath := os.Getenv(ConfigPathEnv); configPath != "" {
		v.SetConfigFile(configPath)
	}

	// A missing config file is fine; defaults and env vars apply
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ATO_BUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Storage: StorageConfig{
			Backend:    strings.ToLower(v.GetString("storage.backend")),
			JSONPath:   v.GetString("storage.json_path"),
			SQLitePath: v.GetString("storage.sqlite_path"),
		},
		Inbox: DirConfig{
			Dir:      v.GetString("inbox.dir"),
			Interval: v.GetInt("inbox.interval"),
		},
		Outbox: DirConfig{
			Dir:      v.GetString("outbox.dir"),
			Interval: v.GetInt("outbox.interval"),
		},
		Validation: ValidationConfig{
			Locale: strings.ToLower(v.GetString("validation.locale")),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	switch cfg.Storage.Backend {
	case "json":
		if cfg.Storage.JSONPath == "" {
			return fmt.Errorf("storage.json_path is required for the json backend")
		}
	case "sqlite":
		if cfg.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be json or sqlite)", cfg.Storage.Backend)
	}

	if cfg.Inbox.Dir == "" {
		return fmt.Errorf("inbox.dir is required")
	}
	if cfg.Inbox.Interval <= 0 {
		return fmt.Errorf("inbox.interval must be greater than 0")
	}
	if cfg.Outbox.Dir == "" {
		return fmt.Errorf("outbox.dir is required")
	}
	if cfg.Outbox.Interval <= 0 {
		return fmt.Errorf("outbox.interval must be greater than 0")
	}

	validLocales := map[string]bool{
		"en": true,
		"es": true,
	}
	if !validLocales[cfg.Validation.Locale] {
		return fmt.Errorf("invalid validation locale: %s (must be en or es)", cfg.Validation.Locale)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
