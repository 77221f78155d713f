package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	// timezones resolve in minimal containers too
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	DefaultStoreReadTimeoutMs   = 3000
	DefaultTimezone             = "UTC"
	DefaultDismissedCacheSizeMB = 8
	DefaultDismissedResetCron   = "0 0 * * *"
	DefaultRateLimitPerMin      = 60
)

type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// dev_memstore serves a seeded in-process history instead of postgres
	DevMemstore bool `toml:"dev_memstore"`
	// redis, used for rate limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// coach
	RateLimitAllowedPerMin int      `toml:"rate_limit_allowed_per_min"`
	StoreReadTimeoutMs     int      `toml:"store_read_timeout_ms"`
	Timezone               string   `toml:"timezone"`
	DismissedCacheSizeMB   int      `toml:"dismissed_cache_size_mb"`
	DismissedResetCron     string   `toml:"dismissed_reset_cron"`
	AllowedOrigins         []string `toml:"allowed_origins"`
}

func (c *Config) StoreReadTimeout() time.Duration {
	return time.Duration(c.StoreReadTimeoutMs) * time.Millisecond
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) applyDefaults() {
	if c.StoreReadTimeoutMs <= 0 {
		c.StoreReadTimeoutMs = DefaultStoreReadTimeoutMs
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.DismissedCacheSizeMB <= 0 {
		c.DismissedCacheSizeMB = DefaultDismissedCacheSizeMB
	}
	if c.DismissedResetCron == "" {
		c.DismissedResetCron = DefaultDismissedResetCron
	}
	if c.RateLimitAllowedPerMin <= 0 {
		c.RateLimitAllowedPerMin = DefaultRateLimitPerMin
	}
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env, with
// defaults filled in.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Secrets never live in the TOML file.
type Secrets struct {
	SentryDSN        string `env:"SENTRY_DSN"`
	RedisPassword    string `env:"FITCOACH_REDIS_PASS"`
	PostgresUser     string `env:"FITCOACH_POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"FITCOACH_POSTGRES_PASS"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	MCPSecret        string `env:"FITCOACH_MCP_SECRET"`
}

// LoadSecrets parses secrets from the environment, after loading the given
// .env files if they exist.
func LoadSecrets(dotenvFiles ...string) (*Secrets, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	secrets := &Secrets{}
	if err := env.Parse(secrets); err != nil {
		return nil, fmt.Errorf("parse secrets: %w", err)
	}
	return secrets, nil
}
