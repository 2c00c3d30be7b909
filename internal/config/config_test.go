// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/nikbelko/Minsk-event/internal/refresh"
	"github.com/nikbelko/Minsk-event/internal/source"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/events.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/events.db")
	}
	if cfg.City != "Минск" {
		t.Errorf("City = %q, want %q", cfg.City, "Минск")
	}
	if cfg.Location().String() != "Europe/Minsk" {
		t.Errorf("Location = %q, want Europe/Minsk", cfg.Location())
	}
	if cfg.Policy() != refresh.PolicyPreserve {
		t.Errorf("Policy = %q, want preserve", cfg.Policy())
	}
	if cfg.SourceTimeout != 5*time.Minute {
		t.Errorf("SourceTimeout = %v, want 5m", cfg.SourceTimeout)
	}
	if cfg.RefreshSchedule != "0 6 * * *" {
		t.Errorf("RefreshSchedule = %q", cfg.RefreshSchedule)
	}
	if len(cfg.Sources) != 0 {
		t.Errorf("Sources = %v, want all (empty)", cfg.Sources)
	}
	if cfg.UseRedisCache() || cfg.ReportWebhookEnabled() {
		t.Error("optional integrations should be off by default")
	}

	opts := cfg.FetchOptions()
	if opts.Attempts != 3 || opts.Backoff != 5*time.Second || opts.Timeout != 30*time.Second || opts.Rate != 1 {
		t.Errorf("FetchOptions = %+v", opts)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	t.Setenv("AFISHA_DB_PATH", "/var/lib/afisha/events.db")
	t.Setenv("AFISHA_ENV", "production")
	t.Setenv("AFISHA_LOG_FORMAT", "json")
	t.Setenv("AFISHA_TIMEZONE", "UTC")
	t.Setenv("AFISHA_SOURCES", "ticketpro.by, relax.by/kino")
	t.Setenv("AFISHA_EMPTY_POLICY", "wipe")
	t.Setenv("AFISHA_SOURCE_TIMEOUT", "90s")
	t.Setenv("AFISHA_REFRESH_SCHEDULE", "30 5 * * 1-5")
	t.Setenv("AFISHA_SERVER_PORT", "9090")
	t.Setenv("AFISHA_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("AFISHA_REPORT_WEBHOOK_URL", "https://hooks.example.com/afisha")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production")
	}
	if cfg.Policy() != refresh.PolicyWipe {
		t.Errorf("Policy = %q, want wipe", cfg.Policy())
	}
	if cfg.SourceTimeout != 90*time.Second {
		t.Errorf("SourceTimeout = %v, want 90s", cfg.SourceTimeout)
	}
	want := []string{source.NameTicketpro, source.NameKino}
	if len(cfg.Sources) != 2 || cfg.Sources[0] != want[0] || cfg.Sources[1] != want[1] {
		t.Errorf("Sources = %q, want %q", cfg.Sources, want)
	}
	if cfg.ServerAddr() != "localhost:9090" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
	if !cfg.UseRedisCache() || !cfg.ReportWebhookEnabled() {
		t.Error("optional integrations should be on")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"AFISHA_ENV", "staging"},
		{"AFISHA_LOG_FORMAT", "xml"},
		{"AFISHA_CITY", "  "},
		{"AFISHA_TIMEZONE", "Mars/Olympus"},
		{"AFISHA_EMPTY_POLICY", "truncate"},
		{"AFISHA_REFRESH_SCHEDULE", "every morning"},
		{"AFISHA_SOURCES", "relax.by/kino,afisha.tut.by"},
		{"AFISHA_SOURCE_TIMEOUT", "0s"},
		{"AFISHA_FETCH_ATTEMPTS", "0"},
		{"AFISHA_MAX_PAGES", "-1"},
		{"AFISHA_SERVER_PORT", "70000"},
		{"AFISHA_REPORT_WEBHOOK_URL", "ftp://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			os.Clearenv()
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() with %s=%q: error = %v, want ErrInvalid", tt.key, tt.value, err)
			}
		})
	}
}

func TestLoad_ParseError(t *testing.T) {
	os.Clearenv()
	t.Setenv("AFISHA_SOURCE_TIMEOUT", "five minutes")

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for a malformed duration")
	}
}
