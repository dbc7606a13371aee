package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Billing   BillingConfig   `yaml:"billing"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// SessionTimeout closes idle HTTP MCP sessions.
	SessionTimeout time.Duration `yaml:"session_timeout"`
}

// TransportConfig selects how the tool surface is served: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type StorageConfig struct {
	Backend    string         `yaml:"backend"`
	Path       string         `yaml:"path"`
	Optimistic bool           `yaml:"optimistic"`
	Redis      RedisConfig    `yaml:"redis"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
	// MaxSizeMB caps the log file; older output is dropped once it is exceeded.
	MaxSizeMB int `yaml:"max_size_mb"`
}

type BillingConfig struct {
	DefaultVATRate  float64 `yaml:"default_vat_rate"`
	DefaultCurrency string  `yaml:"default_currency"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			SessionTimeout: 30 * time.Minute,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    "cabinet.db",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "cabinet",
			},
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 6,
		},
		Billing: BillingConfig{
			DefaultVATRate:  20,
			DefaultCurrency: "MAD",
		},
	}

	if path := os.Getenv("CABINET_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("CABINET_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CABINET_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid CABINET_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("CABINET_SESSION_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CABINET_SESSION_TIMEOUT: %w", err)
		}
		cfg.Server.SessionTimeout = timeout
	}
	if mode := os.Getenv("CABINET_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if backend := os.Getenv("CABINET_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if dbPath := os.Getenv("CABINET_DB_PATH"); dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if v := os.Getenv("CABINET_STORAGE_OPTIMISTIC"); v != "" {
		optimistic, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CABINET_STORAGE_OPTIMISTIC: %w", err)
		}
		cfg.Storage.Optimistic = optimistic
	}
	if addr := os.Getenv("CABINET_REDIS_ADDR"); addr != "" {
		cfg.Storage.Redis.Addr = addr
	}
	if password := os.Getenv("CABINET_REDIS_PASSWORD"); password != "" {
		cfg.Storage.Redis.Password = password
	}
	if dsn := os.Getenv("CABINET_POSTGRES_DSN"); dsn != "" {
		cfg.Storage.Postgres.DSN = dsn
	}
	if level := os.Getenv("CABINET_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("CABINET_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	if v := os.Getenv("CABINET_LOG_MAX_SIZE_MB"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CABINET_LOG_MAX_SIZE_MB: %w", err)
		}
		cfg.Log.MaxSizeMB = size
	}
	if v := os.Getenv("CABINET_DEFAULT_VAT_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid CABINET_DEFAULT_VAT_RATE: %w", err)
		}
		cfg.Billing.DefaultVATRate = rate
	}
	return nil
}

// Validate rejects unknown modes and backends.
func (c Config) Validate() error {
	switch strings.ToLower(c.Transport.Mode) {
	case "stdio", "http":
	default:
		return fmt.Errorf("unknown transport mode %q", c.Transport.Mode)
	}
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage backend postgres requires a dsn")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Log.Path != "" && c.Log.MaxSizeMB < 1 {
		return fmt.Errorf("log max size must be at least 1 MB")
	}
	if c.Billing.DefaultVATRate < 0 {
		return fmt.Errorf("default vat rate must not be negative")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
