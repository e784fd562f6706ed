package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler exposes liveness and readiness probes for the viewer.
type HealthHandler struct {
	db     Pinger
	cache  Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a health handler. cache may be nil when the
// viewer runs without Redis.
func NewHealthHandler(db Pinger, cacheClient Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cacheClient,
		logger: logger,
	}
}

// Healthz reports process liveness.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports whether the viewer can serve traffic. Postgres is
// required; Redis is best-effort and only degrades the report.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok"}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("database ping failed", "error", err)
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		checks["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.Warn("cache ping failed", "error", err)
			checks["cache"] = "unavailable"
		}
	}

	writeJSON(w, status, checks)
}
