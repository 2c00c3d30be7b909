// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides the HTTP middleware in front of the query API.
package middleware

import (
	"encoding/json"
	"net/http"
)

// ErrorWriter writes an error response. The API passes its own writer so
// middleware errors share its JSON envelope.
type ErrorWriter func(w http.ResponseWriter, statusCode int, code, message string)

// PlainError writes a JSON error body without an envelope.
func PlainError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}
