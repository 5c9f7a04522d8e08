package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sekha-ai/sekha-workbench/internal/middleware"
	"github.com/sekha-ai/sekha-workbench/internal/service"
)

// SelectionHandler exposes the session-local selection set.
type SelectionHandler struct {
	selection *service.SelectionManager
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(sel *service.SelectionManager) *SelectionHandler {
	return &SelectionHandler{selection: sel}
}

type selectionResponse struct {
	Selected []string `json:"selected"`
	Count    int      `json:"count"`
}

// Get handles GET /api/v1/selection
func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, selectionResponse{
		Selected: h.selection.Selected(),
		Count:    h.selection.Count(),
	})
}

type selectionRequest struct {
	IDs     []string `json:"ids"`
	Replace bool     `json:"replace,omitempty"`
}

// Put handles PUT /api/v1/selection — adds ids, or replaces the whole
// selection when replace is set.
func (h *SelectionHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
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

	if req.Replace {
		h.selection.SelectAll(req.IDs)
	} else {
		h.selection.SelectRange(req.IDs)
	}
	h.Get(w, r)
}

// Toggle handles POST /api/v1/selection/:id/toggle
func (h *SelectionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.selection.Toggle(id)
	h.Get(w, r)
}

// Clear handles DELETE /api/v1/selection
func (h *SelectionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.selection.Clear()
	w.WriteHeader(http.StatusNoContent)
}
