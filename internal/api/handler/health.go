package handler

import (
	"context"
	"net/http"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// HealthHandler reports connectivity to the key-value store and object storage.
type HealthHandler struct {
	redis   Pinger
	storage Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(redis, storage Pinger) *HealthHandler {
	return &HealthHandler{redis: redis, storage: storage}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.redis.Ping(ctx); err != nil {
		JSON(w, http.StatusInternalServerError, HealthResponse{
			Status: "unhealthy",
			Error:  err.Error(),
		})
		return
	}

	services := map[string]string{"redis": "connected", "minio": "configured"}
	if err := h.storage.Ping(ctx); err != nil {
		services["minio"] = "unreachable"
	}

	JSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Services: services,
	})
}
