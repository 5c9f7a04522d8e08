package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sekha-ai/sekha-workbench/internal/middleware"
	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/internal/service"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
)

// MergeHandler exposes the merge operation.
type MergeHandler struct {
	merge  *service.MergeService
	logger *logger.Logger
}

// NewMergeHandler creates a new merge handler.
func NewMergeHandler(merge *service.MergeService, log *logger.Logger) *MergeHandler {
	return &MergeHandler{merge: merge, logger: log}
}

type mergeRequest struct {
	IDs     []string           `json:"ids"`
	Options model.MergeOptions `json:"options"`
}

// Merge handles POST /api/v1/merge
func (h *MergeHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, id := range req.IDs {
		if err := middleware.ValidateConversationID(id); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := middleware.ValidateLabel(req.Options.Label); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateFolder(req.Options.Folder); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.merge.Merge(r.Context(), req.IDs, req.Options)
	if err != nil {
		h.logger.Error("merge failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
