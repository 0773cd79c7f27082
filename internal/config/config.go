// Package config loads application configuration from environment
// variables and an optional YAML file. Environment variables take
// precedence over file values.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix for all environment variables,
// e.g. CRYPTOPULSE_SERVER_PORT.
const envPrefix = "CRYPTOPULSE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Import    ImportConfig    `yaml:"import" envconfig:"IMPORT"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig contains PostgreSQL connection configuration
type DatabaseConfig struct {
	URL             string        `yaml:"url" envconfig:"URL" default:"postgres://localhost:5432/cryptopulse?sslmode=disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME" default:"5m"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// ImportConfig contains document import configuration
type ImportConfig struct {
	MaxBodyBytes int64 `yaml:"max_body_bytes" envconfig:"MAX_BODY_BYTES" default:"10485760"`
}

// AnalyticsConfig contains analytics and relationship-builder tuning
type AnalyticsConfig struct {
	DefaultLimit int `yaml:"default_limit" envconfig:"DEFAULT_LIMIT" default:"10"`
	MaxLimit     int `yaml:"max_limit" envconfig:"MAX_LIMIT" default:"50"`
	BatchSize    int `yaml:"batch_size" envconfig:"BATCH_SIZE" default:"50"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// getConfigFilePath returns the config file location,
// overridable via CRYPTOPULSE_CONFIG_FILE.
func getConfigFilePath() string {
	if path := os.Getenv(envPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// Zero-valued env fields fall back to the file value.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Server.IdleTimeout == 0 {
		envConfig.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if envConfig.Server.MaxHeaderBytes == 0 {
		envConfig.Server.MaxHeaderBytes = fileConfig.Server.MaxHeaderBytes
	}
	if envConfig.Server.ShutdownTimeout == 0 {
		envConfig.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}

	if envConfig.Database.URL == "" {
		envConfig.Database.URL = fileConfig.Database.URL
	}
	if envConfig.Database.MaxOpenConns == 0 {
		envConfig.Database.MaxOpenConns = fileConfig.Database.MaxOpenConns
	}
	if envConfig.Database.MaxIdleConns == 0 {
		envConfig.Database.MaxIdleConns = fileConfig.Database.MaxIdleConns
	}
	if envConfig.Database.ConnMaxLifetime == 0 {
		envConfig.Database.ConnMaxLifetime = fileConfig.Database.ConnMaxLifetime
	}

	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	if envConfig.Import.MaxBodyBytes == 0 {
		envConfig.Import.MaxBodyBytes = fileConfig.Import.MaxBodyBytes
	}

	if envConfig.Analytics.DefaultLimit == 0 {
		envConfig.Analytics.DefaultLimit = fileConfig.Analytics.DefaultLimit
	}
	if envConfig.Analytics.MaxLimit == 0 {
		envConfig.Analytics.MaxLimit = fileConfig.Analytics.MaxLimit
	}
	if envConfig.Analytics.BatchSize == 0 {
		envConfig.Analytics.BatchSize = fileConfig.Analytics.BatchSize
	}

	return envConfig
}

// validate checks config values for consistency
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	if !strings.HasPrefix(c.Database.URL, "postgres://") && !strings.HasPrefix(c.Database.URL, "postgresql://") {
		return fmt.Errorf("database url must be a postgres:// URL")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Import.MaxBodyBytes < 1 {
		return fmt.Errorf("import max body bytes must be positive")
	}
	if c.Analytics.DefaultLimit < 1 {
		return fmt.Errorf("analytics default limit must be positive")
	}
	if c.Analytics.MaxLimit < c.Analytics.DefaultLimit {
		return fmt.Errorf("analytics max limit %d is below default limit %d",
			c.Analytics.MaxLimit, c.Analytics.DefaultLimit)
	}
	if c.Analytics.BatchSize < 1 {
		return fmt.Errorf("analytics batch size must be positive")
	}

	return nil
}
