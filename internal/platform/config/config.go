package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheRedis    = "redis"
	CacheMemcache = "memcache"
	CacheMemory   = "memory"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8080"`

	DatabaseDriver string `env:"DATABASE_DRIVER" default:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH" default:"helpful.db"`

	CacheBackend    string `env:"CACHE_BACKEND" default:"memory"`
	RedisURL        string `env:"REDIS_URL"`
	MemcacheServers string `env:"MEMCACHE_SERVERS"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	Timezone            string `env:"TIMEZONE" default:"UTC"`
	MonthIncludeLastDay bool   `env:"MONTH_INCLUDE_LAST_DAY" default:"false"`

	// Defaults for the site options, used when the options table has no row.
	HelpfulCaching      string `env:"HELPFUL_CACHING" default:"off"`
	HelpfulCacheTime    string `env:"HELPFUL_CACHE_TIME" default:"minute"`
	HelpfulPostTypes    string `env:"HELPFUL_POST_TYPES" default:"post"`
	HelpfulWidgetAmount int    `env:"HELPFUL_WIDGET_AMOUNT" default:"3"`

	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" default:"20"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" default:"40"`

	location *time.Location
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		if cfg.AppEnv == "production" {
			if err := requireSecureSSL(cfg.DatabaseURL); err != nil {
				return err
			}
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DatabaseDriver)
	}

	switch cfg.CacheBackend {
	case CacheRedis:
		if cfg.RedisURL == "" {
			return errors.New("REDIS_URL is required")
		}
	case CacheMemcache:
		if len(cfg.MemcacheServerList()) == 0 {
			return errors.New("MEMCACHE_SERVERS is required")
		}
	case CacheMemory:
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of redis, memcache, memory, got %q", cfg.CacheBackend)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	cfg.location = loc

	if cfg.HelpfulWidgetAmount <= 0 {
		return errors.New("HELPFUL_WIDGET_AMOUNT must be positive")
	}
	if cfg.RateLimitPerSecond <= 0 || cfg.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive")
	}

	return nil
}

func requireSecureSSL(databaseURL string) error {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("DATABASE_URL is invalid: %w", err)
	}
	mode := strings.ToLower(u.Query().Get("sslmode"))
	if mode == "disable" || mode == "allow" {
		return fmt.Errorf("DATABASE_URL uses sslmode=%s which is not allowed in production", mode)
	}
	return nil
}

// Location is the reporting time zone. UTC before validation.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// MemcacheServerList splits MEMCACHE_SERVERS on commas.
func (c *Config) MemcacheServerList() []string {
	var servers []string
	for s := range strings.SplitSeq(c.MemcacheServers, ",") {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	return servers
}

// OptionDefaults maps site option names to their configured defaults.
func (c *Config) OptionDefaults() map[string]string {
	return map[string]string{
		"helpful_caching":       c.HelpfulCaching,
		"helpful_cache_time":    c.HelpfulCacheTime,
		"helpful_post_types":    c.HelpfulPostTypes,
		"helpful_widget_amount": strconv.Itoa(c.HelpfulWidgetAmount),
	}
}
