package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	BasePath    string `envconfig:"BASE_PATH" default:"/uwb-dashboard/"`
	Timezone    string `envconfig:"TIMEZONE" default:"Local"`

	// Event source
	EventsBaseURL string        `envconfig:"EVENTS_BASE_URL" default:"https://uwb-dashboard.duckdns.org"`
	FetchLimit    int           `envconfig:"FETCH_LIMIT" default:"200"`
	FetchTimeout  time.Duration `envconfig:"FETCH_TIMEOUT" default:"2s"`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"2s"`

	// Sessions
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	LoginRateLimit int           `envconfig:"LOGIN_RATE_LIMIT" default:"30"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.EventsBaseURL) == "" {
		return fmt.Errorf("EVENTS_BASE_URL must not be empty")
	}
	if c.FetchLimit <= 0 {
		return fmt.Errorf("FETCH_LIMIT must be positive, got %d", c.FetchLimit)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	// each poll tick cancels the fetch still running from the previous one
	if c.FetchTimeout > c.PollInterval {
		return fmt.Errorf("FETCH_TIMEOUT (%s) must not exceed POLL_INTERVAL (%s)", c.FetchTimeout, c.PollInterval)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative, got %s", c.SessionTTL)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location resolves TIMEZONE. Event dates and times are rendered in it.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	return loc, nil
}

// AssetPrefix returns BASE_PATH with exactly one leading and trailing slash.
func (c *Config) AssetPrefix() string {
	p := strings.Trim(strings.TrimSpace(c.BasePath), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// ParseLevel maps LOG_LEVEL to a slog level. Empty means "pick by env".
func ParseLevel(s string) (*slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return &lvl, nil
}
