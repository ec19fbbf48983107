package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/taskpilot/taskpilot/internal/storage"
)

// HealthChecker handles health check requests
type HealthChecker struct {
	store storage.Store
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(store storage.Store) *HealthChecker {
	return &HealthChecker{store: store}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// pinger is implemented by backends with a live connection to check
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		checks := make(map[string]string)

		if p, ok := h.store.(pinger); ok {
			if err := h.checkStore(r.Context(), p); err != nil {
				response.Status = "unhealthy"
				checks["storage"] = "unhealthy: " + err.Error()
			} else {
				checks["storage"] = "healthy"
			}
		} else {
			checks["storage"] = "healthy"
		}

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(response)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// checkStore verifies the storage backend connection
func (h *HealthChecker) checkStore(ctx context.Context, p pinger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.Ping(ctx)
}
