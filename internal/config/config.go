// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	LockDriverLocal = "local"
	LockDriverRedis = "redis"

	DefaultCompletionCron = "* * * * *"
)

type DatabaseConfig struct {
	Driver        string `yaml:"driver"`
	Filename      string `yaml:"filename"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms"`
	MaxTxRetries  int    `yaml:"max_tx_retries"`
}

type SchedulerConfig struct {
	CompletionCron string `yaml:"completion_cron"`
}

type LocksConfig struct {
	Driver             string `yaml:"driver"`
	TTLSeconds         int    `yaml:"ttl_seconds"`
	WaitTimeoutSeconds int    `yaml:"wait_timeout_seconds"`
}

func (l LocksConfig) TTL() time.Duration {
	return time.Duration(l.TTLSeconds) * time.Second
}

func (l LocksConfig) WaitTimeout() time.Duration {
	return time.Duration(l.WaitTimeoutSeconds) * time.Second
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	DB       int    `yaml:"db"`
	Password string `yaml:"-"` // Loaded from environment
}

type RateLimitConfig struct {
	WritesPerMinute   int  `yaml:"writes_per_minute"`
	IPWritesPerMinute int  `yaml:"ip_writes_per_minute"`
	TrustProxy        bool `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name                   string `yaml:"name"`
		Environment            string `yaml:"environment"`
		Port                   int    `yaml:"port"`
		Timezone               string `yaml:"timezone"`
		ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
		JWTSecret              string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Locks     LocksConfig     `yaml:"locks"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.App.JWTSecret = os.Getenv("AUTH_JWT_SECRET")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Timezone == "" {
		c.App.Timezone = "Europe/Sofia"
	}
	if c.App.ShutdownTimeoutSeconds == 0 {
		c.App.ShutdownTimeoutSeconds = 10
	}
	if c.Database.BusyTimeoutMS == 0 {
		c.Database.BusyTimeoutMS = 5000
	}
	if c.Database.MaxTxRetries == 0 {
		c.Database.MaxTxRetries = 3
	}
	if c.Scheduler.CompletionCron == "" {
		c.Scheduler.CompletionCron = DefaultCompletionCron
	}
	if c.Locks.Driver == "" {
		c.Locks.Driver = LockDriverLocal
	}
	if c.Locks.TTLSeconds == 0 {
		c.Locks.TTLSeconds = 30
	}
	if c.Locks.WaitTimeoutSeconds == 0 {
		c.Locks.WaitTimeoutSeconds = 5
	}
	if c.RateLimit.WritesPerMinute == 0 {
		c.RateLimit.WritesPerMinute = 30
	}
	if c.RateLimit.IPWritesPerMinute == 0 {
		c.RateLimit.IPWritesPerMinute = 120
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid app timezone %q: %w", c.App.Timezone, err)
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.MaxTxRetries < 1 {
		return fmt.Errorf("database max_tx_retries must be at least 1")
	}

	if _, err := cron.ParseStandard(c.Scheduler.CompletionCron); err != nil {
		return fmt.Errorf("invalid scheduler completion_cron %q: %w", c.Scheduler.CompletionCron, err)
	}

	switch c.Locks.Driver {
	case LockDriverLocal:
	case LockDriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for the redis lock driver")
		}
	default:
		return fmt.Errorf("unsupported lock driver: %s", c.Locks.Driver)
	}
	if c.Locks.WaitTimeoutSeconds < 0 || c.Locks.TTLSeconds < 0 {
		return fmt.Errorf("lock timeouts must not be negative")
	}
	if c.RateLimit.WritesPerMinute < 0 || c.RateLimit.IPWritesPerMinute < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	return nil
}
