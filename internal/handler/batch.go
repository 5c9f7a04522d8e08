package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sekha-ai/sekha-workbench/internal/middleware"
	"github.com/sekha-ai/sekha-workbench/internal/service"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
)

// BatchHandler exposes batch operations over the current selection.
type BatchHandler struct {
	batch  *service.BatchService
	logger *logger.Logger
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(batch *service.BatchService, log *logger.Logger) *BatchHandler {
	return &BatchHandler{batch: batch, logger: log}
}

type batchResponse struct {
	Affected int `json:"affected"`
}

// Pin handles POST /api/v1/batch/pin
func (h *BatchHandler) Pin(w http.ResponseWriter, r *http.Request) {
	n, err := h.batch.Pin(r.Context())
	h.respond(w, n, err)
}

// Unpin handles POST /api/v1/batch/unpin
func (h *BatchHandler) Unpin(w http.ResponseWriter, r *http.Request) {
	n, err := h.batch.Unpin(r.Context())
	h.respond(w, n, err)
}

// Archive handles POST /api/v1/batch/archive
func (h *BatchHandler) Archive(w http.ResponseWriter, r *http.Request) {
	n, err := h.batch.Archive(r.Context())
	h.respond(w, n, err)
}

// Delete handles POST /api/v1/batch/delete
func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	n, err := h.batch.Delete(r.Context())
	h.respond(w, n, err)
}

// Move handles POST /api/v1/batch/move
func (h *BatchHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Folder string `json:"folder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Folder == "" {
		writeError(w, http.StatusBadRequest, "folder is required")
		return
	}
	if err := middleware.ValidateFolder(req.Folder); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.batch.Move(r.Context(), req.Folder)
	h.respond(w, n, err)
}

// AddTags handles POST /api/v1/batch/tags
func (h *BatchHandler) AddTags(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateTags(req.Tags); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.batch.AddTags(r.Context(), req.Tags)
	h.respond(w, n, err)
}

func (h *BatchHandler) respond(w http.ResponseWriter, affected int, err error) {
	if err != nil {
		h.logger.Error("batch operation failed")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Affected: affected})
}
