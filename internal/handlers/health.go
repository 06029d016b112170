package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is anything that can report connectivity, e.g. *database.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	store Pinger // nil for the in-memory backend
}

// NewHealthChecker creates a new health checker. store may be nil when no
// external storage is configured.
func NewHealthChecker(store Pinger) *HealthChecker {
	return &HealthChecker{store: store}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	statusCode := http.StatusOK
	if r.URL.Query().Get("mode") == "extended" {
		checks := make(map[string]string)

		if h.store == nil {
			checks["store"] = "healthy (in-memory)"
		} else if err := h.checkStore(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["store"] = "unhealthy: " + err.Error()
			statusCode = http.StatusServiceUnavailable
		} else {
			checks["store"] = "healthy"
		}

		response.Checks = checks
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *HealthChecker) checkStore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.store.PingContext(ctx)
}
