// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the read-only JSON API over the events catalog.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nikbelko/Minsk-event/internal/model"
	"github.com/nikbelko/Minsk-event/internal/scheduler"
)

// Catalog is the query side the handlers read from.
type Catalog interface {
	OnDate(ctx context.Context, date time.Time, category model.Category) ([]model.Event, error)
	Upcoming(ctx context.Context, from time.Time, days int, category model.Category) ([]model.Event, error)
	Weekend(ctx context.Context, today time.Time, category model.Category) ([]model.Event, error)
	SearchTitle(ctx context.Context, needle string, from time.Time, limit int) ([]model.Event, error)
	LatestRun(ctx context.Context) (scheduler.Report, error)
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	catalog Catalog
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger
}

// NewHandler creates a new API handler. Dates without an explicit value
// default to today in loc.
func NewHandler(catalog Catalog, loc *time.Location, logger *slog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

// Routes registers the API under r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEventsOnDate)
		r.Get("/upcoming", h.ListUpcomingEvents)
		r.Get("/weekend", h.ListWeekendEvents)
		r.Get("/search", h.SearchEvents)
	})
	r.Get("/categories", h.ListCategories)
	r.Get("/runs/latest", h.LatestRun)
}

// today returns the current date in the catalog's zone as midnight UTC.
func (h *Handler) today() time.Time {
	now := h.now().In(h.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta describes the window a listing covers.
type Meta struct {
	Total    int    `json:"total"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Category string `json:"category,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteMiddlewareError adapts WriteError to middleware.ErrorWriter.
func WriteMiddlewareError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteError(w, statusCode, code, message, nil)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}
