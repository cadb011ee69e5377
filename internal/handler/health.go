package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db      pinger
	backend string
}

// NewHealthHandler takes a nil db for backends without a connection to check.
func NewHealthHandler(db pinger, backend string) *HealthHandler {
	return &HealthHandler{db: db, backend: backend}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	storageStatus := "ok"
	httpStatus := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			slog.Warn("readiness check failed: database unreachable", "error", err)
			storageStatus = "down"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	overallStatus := "ok"
	if httpStatus != http.StatusOK {
		overallStatus = "down"
	}

	RespondJSON(w, httpStatus, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			h.backend: storageStatus,
		},
	})
}
