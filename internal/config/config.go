// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from AFISHA_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // zone data for hosts without a system database

	"github.com/caarlos0/env/v11"

	"github.com/nikbelko/Minsk-event/internal/fetch"
	"github.com/nikbelko/Minsk-event/internal/refresh"
	"github.com/nikbelko/Minsk-event/internal/scheduler"
	"github.com/nikbelko/Minsk-event/internal/source"
)

// ErrInvalid is wrapped by every validation error returned from Load.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath    string `env:"AFISHA_DB_PATH" envDefault:"./data/events.db"`
	Env       string `env:"AFISHA_ENV" envDefault:"development"`
	LogLevel  string `env:"AFISHA_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"AFISHA_LOG_FORMAT" envDefault:"text"`

	// Catalog scope
	City     string   `env:"AFISHA_CITY" envDefault:"Минск"`
	Timezone string   `env:"AFISHA_TIMEZONE" envDefault:"Europe/Minsk"`
	Sources  []string `env:"AFISHA_SOURCES" envSeparator:","` // Empty means every source

	// Refresh
	SourceTimeout   time.Duration `env:"AFISHA_SOURCE_TIMEOUT" envDefault:"5m"`
	RefreshSchedule string        `env:"AFISHA_REFRESH_SCHEDULE" envDefault:"0 6 * * *"`
	EmptyPolicy     string        `env:"AFISHA_EMPTY_POLICY" envDefault:"preserve"`

	// Fetching
	FetchAttempts int           `env:"AFISHA_FETCH_ATTEMPTS" envDefault:"3"`
	FetchBackoff  time.Duration `env:"AFISHA_FETCH_BACKOFF" envDefault:"5s"`
	FetchTimeout  time.Duration `env:"AFISHA_FETCH_TIMEOUT" envDefault:"30s"`
	FetchRate     float64       `env:"AFISHA_FETCH_RATE" envDefault:"1"` // Requests per second, 0 = unlimited
	UserAgent     string        `env:"AFISHA_USER_AGENT"`
	MaxPages      int           `env:"AFISHA_MAX_PAGES" envDefault:"50"`

	// HTTP surface
	ServerHost     string        `env:"AFISHA_SERVER_HOST" envDefault:"localhost"`
	ServerPort     int           `env:"AFISHA_SERVER_PORT" envDefault:"8080"`
	APIRate        float64       `env:"AFISHA_API_RATE" envDefault:"10"`
	APIBurst       int           `env:"AFISHA_API_BURST" envDefault:"20"`
	RequestTimeout time.Duration `env:"AFISHA_REQUEST_TIMEOUT" envDefault:"30s"`

	// Cache configuration
	RedisURL     string        `env:"AFISHA_REDIS_URL"`                         // Optional Redis URL for the query cache
	CachePrefix  string        `env:"AFISHA_CACHE_PREFIX" envDefault:"afisha:"` // Redis key prefix
	CacheTTL     time.Duration `env:"AFISHA_CACHE_TTL" envDefault:"1h"`
	CacheMaxSize int           `env:"AFISHA_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Run report delivery
	ReportWebhookURL    string `env:"AFISHA_REPORT_WEBHOOK_URL"`
	ReportWebhookSecret string `env:"AFISHA_REPORT_WEBHOOK_SECRET"`

	location *time.Location
	policy   refresh.Policy
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// ReportWebhookEnabled returns true if run reports are delivered.
func (c Config) ReportWebhookEnabled() bool {
	return c.ReportWebhookURL != ""
}

// Location returns the time zone that defines "today" and the schedule.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Policy returns the parsed empty-harvest policy.
func (c Config) Policy() refresh.Policy {
	if c.policy == "" {
		return refresh.PolicyPreserve
	}
	return c.policy
}

// FetchOptions returns the fetch client settings.
func (c Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Attempts:  c.FetchAttempts,
		Backoff:   c.FetchBackoff,
		Timeout:   c.FetchTimeout,
		Rate:      c.FetchRate,
		UserAgent: c.UserAgent,
	}
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("%w: AFISHA_ENV must be development or production, got %q", ErrInvalid, c.Env)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: AFISHA_LOG_FORMAT must be text or json, got %q", ErrInvalid, c.LogFormat)
	}
	if strings.TrimSpace(c.City) == "" {
		return fmt.Errorf("%w: AFISHA_CITY must not be empty", ErrInvalid)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w: AFISHA_TIMEZONE: %w", ErrInvalid, err)
	}
	c.location = loc

	policy, err := refresh.ParsePolicy(c.EmptyPolicy)
	if err != nil {
		return fmt.Errorf("%w: AFISHA_EMPTY_POLICY: %w", ErrInvalid, err)
	}
	c.policy = policy

	if _, err := scheduler.ParseSchedule(c.RefreshSchedule); err != nil {
		return fmt.Errorf("%w: AFISHA_REFRESH_SCHEDULE: %w", ErrInvalid, err)
	}

	sources := c.Sources[:0]
	for _, name := range c.Sources {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !source.Known(name) {
			return fmt.Errorf("%w: AFISHA_SOURCES: unknown source %q (known: %s)",
				ErrInvalid, name, strings.Join(source.Names(), ", "))
		}
		sources = append(sources, name)
	}
	c.Sources = sources

	positive := []struct {
		name string
		ok   bool
	}{
		{"AFISHA_SOURCE_TIMEOUT", c.SourceTimeout > 0},
		{"AFISHA_FETCH_ATTEMPTS", c.FetchAttempts > 0},
		{"AFISHA_FETCH_BACKOFF", c.FetchBackoff >= 0},
		{"AFISHA_FETCH_TIMEOUT", c.FetchTimeout > 0},
		{"AFISHA_FETCH_RATE", c.FetchRate >= 0},
		{"AFISHA_MAX_PAGES", c.MaxPages > 0},
		{"AFISHA_SERVER_PORT", c.ServerPort > 0 && c.ServerPort < 65536},
		{"AFISHA_API_RATE", c.APIRate > 0},
		{"AFISHA_API_BURST", c.APIBurst > 0},
		{"AFISHA_REQUEST_TIMEOUT", c.RequestTimeout > 0},
		{"AFISHA_CACHE_TTL", c.CacheTTL > 0},
		{"AFISHA_CACHE_MAX_SIZE", c.CacheMaxSize >= 0},
	}
	for _, p := range positive {
		if !p.ok {
			return fmt.Errorf("%w: %s is out of range", ErrInvalid, p.name)
		}
	}

	if c.ReportWebhookURL != "" {
		u, err := url.Parse(c.ReportWebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: AFISHA_REPORT_WEBHOOK_URL must be an http(s) URL", ErrInvalid)
		}
	}
	return nil
}
