package handler

import (
	"net/http"
	"time"
)

// timestampLayout is RFC 3339 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// handleHealth handles GET /api/health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: now.UTC().Format(timestampLayout),
		Uptime:    now.Sub(h.start).Seconds(),
	})
}
