// Package config loads spmto settings from defaults, .spmtorc files and
// SPMTO_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the spmto configuration
type Config struct {
	Catalog        string      `mapstructure:"catalog"`
	Rules          string      `mapstructure:"rules"`
	FollowSymlinks bool        `mapstructure:"followSymlinks"`
	Format         string      `mapstructure:"format"`
	Output         string      `mapstructure:"output"`
	Quiet          bool        `mapstructure:"quiet"`
	Verbose        bool        `mapstructure:"verbose"`
	Log            LogConfig   `mapstructure:"log"`
	Cache          CacheConfig `mapstructure:"cache"`
	Store          StoreConfig `mapstructure:"store"`
}

// LogConfig configures the zap logger and its optional rotating file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	Compress   bool   `mapstructure:"compress"`
}

// CacheConfig configures the Redis result cache.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password" json:"-"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// StoreConfig configures the PostgreSQL reference-data store. An empty DSN
// means instruments come from the catalog only.
type StoreConfig struct {
	DSN string `mapstructure:"dsn" json:"-"`
}

// Formats lists the accepted report formats.
var Formats = []string{"console", "json", "markdown", "xlsx"}

// LoadConfig loads configuration from various sources. A non-empty
// catalogDir overrides the configured catalog directory.
func LoadConfig(catalogDir string) (*Config, error) {
	viper.SetDefault("catalog", "")
	viper.SetDefault("rules", "")
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("format", "console")
	viper.SetDefault("output", "")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.file", "")
	viper.SetDefault("log.maxSizeMB", 10)
	viper.SetDefault("log.maxBackups", 3)
	viper.SetDefault("log.maxAgeDays", 28)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.addr", "localhost:6379")
	viper.SetDefault("cache.password", "")
	viper.SetDefault("cache.db", 0)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.prefix", "spmto:result:")
	viper.SetDefault("store.dsn", "")

	// Config file locations
	configPaths := []string{".spmtorc.json", ".spmtorc.yaml", ".spmtorc.yml"}
	for _, path := range configPaths {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err == nil {
			break
		}
	}

	// Environment variables: SPMTO_FORMAT, SPMTO_CACHE_ADDR, ...
	viper.SetEnvPrefix("SPMTO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if catalogDir != "" {
		config.Catalog = catalogDir
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if !contains(Formats, config.Format) {
		return fmt.Errorf("invalid format: %s. Must be one of %s", config.Format, strings.Join(Formats, ", "))
	}

	// The workbook is binary and never goes to stdout.
	if config.Format == "xlsx" && config.Output == "" {
		return fmt.Errorf("output file is required when format is 'xlsx'")
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s. Must be 'debug', 'info', 'warn', or 'error'", config.Log.Level)
	}
	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s. Must be 'console' or 'json'", config.Log.Format)
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	if config.Cache.Enabled && config.Cache.Addr == "" {
		return fmt.Errorf("cache address is required when the cache is enabled")
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SaveConfig saves the current configuration to a file. Secrets are omitted.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
