package handler

import (
	"fmt"
	"net/http"

	"github.com/yndnr/devops-demo-go/internal/telemetry/logger"
)

// handleMetrics handles GET /metrics.
func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.negotiated != nil {
		h.negotiated.ServeHTTP(w, r)
		return
	}

	body, err := h.reg.Render()
	if err != nil {
		internalError(w, r, fmt.Errorf("render metrics: %w", err))
		return
	}

	w.Header().Set("Content-Type", h.reg.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.L(r.Context()).Debug("write metrics", "error", err)
	}
}
