// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nikbelko/Minsk-event/internal/handler/api"
	"github.com/nikbelko/Minsk-event/internal/middleware"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	API     *api.Handler
	Health  *HealthHandler
	Metrics http.Handler

	// RateLimit and RateBurst bound API requests per client.
	RateLimit      float64
	RateBurst      int
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the chi router serving health, metrics and the API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.StripTrailingSlash)

	r.Get("/health", cfg.Health.Health)
	r.Get("/health/live", cfg.Health.Liveness)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, api.WriteMiddlewareError, cfg.Logger)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(limiter.Middleware)
		r.Use(middleware.Timeout(cfg.RequestTimeout, api.WriteMiddlewareError))
		cfg.API.Routes(r)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteNotFound(w, "Not found")
	})

	return r
}
