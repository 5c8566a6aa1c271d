package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the unit service endpoint the smoke client targets unless overridden.
const DefaultBaseURL = "http://localhost:5278/api/v1/units"

// Config holds the application configuration loaded from files, environment variables and flags.
type Config struct {
	AppName   string `mapstructure:"app_name"`
	Env       string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	LogOutput string `mapstructure:"log_output"`

	BaseURL            string        `mapstructure:"base_url"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	ChecksFile         string        `mapstructure:"checks_file"`
	PublishersFile     string        `mapstructure:"publishers_file"`

	ListenAddr             string        `mapstructure:"listen_addr"`
	RateLimitPerMinute     int           `mapstructure:"rate_limit_per_minute"`
	ShutdownTimeoutSeconds int64         `mapstructure:"shutdown_timeout_seconds"`
	ShutdownTimeout        time.Duration `mapstructure:"-"`
	MetricsEnabled         bool          `mapstructure:"metrics_enabled"`
	ZipkinURL              string        `mapstructure:"zipkin_url"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"base-url":        "base_url",
	"timeout":         "http_timeout_seconds",
	"checks-file":     "checks_file",
	"publishers-file": "publishers_file",
	"listen-addr":     "listen_addr",
	"log-level":       "log_level",
	"log-output":      "log_output",
	"storage-type":    "storage_type",
	"bbolt-path":      "bbolt_path",
	"zipkin-url":      "zipkin_url",
}

// Load reads configuration from environment variables, config files and the given flag set.
// fs may be nil; only flags registered in fs and listed in flagKeys are bound.
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "unit-service")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_output", "stdout")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("http_timeout_seconds", 0) // 0 keeps the client library default (no timeout)
	v.SetDefault("checks_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("listen_addr", ":5278")
	v.SetDefault("rate_limit_per_minute", 100)
	v.SetDefault("shutdown_timeout_seconds", 10)
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("zipkin_url", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/cache.db")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64(time.Hour/time.Second))

	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("invalid base_url (must not be empty)")
	}

	if cfg.HTTPTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must not be negative)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("invalid rate_limit_per_minute (must be positive)")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid shutdown_timeout_seconds (must be positive seconds)")
	}
	cfg.ShutdownTimeout = time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
