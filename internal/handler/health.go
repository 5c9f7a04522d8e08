package handler

import (
	"net/http"

	"github.com/sekha-ai/sekha-workbench/internal/events"
	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/internal/sekha"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	client     sekha.Client
	natsClient *events.Client
}

// NewHealthHandler creates a new health handler. natsClient may be nil
// when eventing is disabled.
func NewHealthHandler(client sekha.Client, natsClient *events.Client) *HealthHandler {
	return &HealthHandler{
		client:     client,
		natsClient: natsClient,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.client.List(r.Context(), model.ListOptions{Limit: 1}); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "memory service unreachable",
		})
		return
	}

	if h.natsClient != nil && !h.natsClient.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
