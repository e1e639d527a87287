// Package handler provides HTTP handlers for the FieldRoute guidance API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/fieldroute/fieldroute/internal/api/models"
	"github.com/fieldroute/fieldroute/internal/api/response"
)

// ReadyCheck reports whether a dependency is ready to serve.
type ReadyCheck func(ctx context.Context) error

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    map[string]ReadyCheck
}

// NewOpsHandler creates a new OpsHandler. Checks are probed by the
// readiness endpoint; a nil map means always ready.
func NewOpsHandler(version, buildTime string, checks map[string]ReadyCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	details := make(map[string]interface{}, len(h.checks))

	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			status = models.HealthStatusFail
			details[name] = err.Error()
		} else {
			details[name] = "ok"
		}
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	if len(details) > 0 {
		health.Details = details
	}

	code := http.StatusOK
	if status != models.HealthStatusOK {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, health)
}
