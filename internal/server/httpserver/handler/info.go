package handler

import (
	"net/http"

	"github.com/yndnr/devops-demo-go/internal/server/config"
	"github.com/yndnr/devops-demo-go/internal/telemetry/logger"
)

// Fixed service metadata reported by /api/info. Build details are
// exported separately through the app_info metric.
const (
	AppName     = "DevOps Demo App"
	AppVersion  = "1.0.0"
	description = "A simple Go app for DevOps demonstration."
)

// handleInfo handles GET /api/info.
// Environment and hostname are read on every request.
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	env := config.DefaultEnvironment
	if h.env != nil {
		if e := h.env.Environment(); e != "" {
			env = e
		}
	}

	host, err := h.hostname()
	if err != nil {
		logger.L(r.Context()).Warn("hostname lookup failed", "error", err)
		host = "unknown"
	}

	writeJSON(w, r, http.StatusOK, InfoResponse{
		Name:        AppName,
		Version:     AppVersion,
		Environment: env,
		Hostname:    host,
		Description: description,
	})
}
