// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/nikbelko/Minsk-event/internal/service"
)

// LatestRun handles GET /api/v1/runs/latest
func (h *Handler) LatestRun(w http.ResponseWriter, r *http.Request) {
	rep, err := h.catalog.LatestRun(r.Context())
	if errors.Is(err, service.ErrNoRuns) {
		WriteNotFound(w, "No refresh run recorded yet")
		return
	}
	if err != nil {
		h.logger.Error("loading latest run failed", "error", err)
		WriteInternalError(w, "Failed to load latest run")
		return
	}
	WriteSuccess(w, rep, nil)
}
