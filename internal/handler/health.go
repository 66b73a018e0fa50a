package handler

import (
	"context"
	"net/http"
)

const serverVersion = "0.1.0"

// HealthResponse reports the service status and the state of its backing stores.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services"`
}

// Health reports liveness plus the state of Postgres and Redis. A degraded
// store turns the overall status to "degraded" and the response to 503 so
// load balancers can rotate the instance out.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]func(context.Context) error{
		"postgres": h.db.HealthCheck,
		"redis":    h.rdb.HealthCheck,
	}

	status := "healthy"
	services := make(map[string]string, len(checks))
	for name, check := range checks {
		if err := check(ctx); err != nil {
			services[name] = "unhealthy"
			status = "degraded"
		} else {
			services[name] = "healthy"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:   status,
		Version:  serverVersion,
		Services: services,
	})
}

// Ready answers readiness probes. Both stores must respond before the
// instance accepts traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.HealthCheck(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	if err := h.rdb.HealthCheck(ctx); err != nil {
		http.Error(w, "redis not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
