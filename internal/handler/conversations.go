// Package handler provides HTTP handlers for the workbench API.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sekha-ai/sekha-workbench/internal/middleware"
	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/internal/sekha"
	"github.com/sekha-ai/sekha-workbench/internal/service"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
)

// ConversationHandler proxies conversation operations to the memory
// service and exposes transcript import and search.
type ConversationHandler struct {
	client   sekha.Client
	importer *service.ImportService
	logger   *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(client sekha.Client, importer *service.ImportService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		client:   client,
		importer: importer,
		logger:   log,
	}
}

// Create handles POST /api/v1/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateLabel(req.Label); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateFolder(req.Folder); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.client.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create conversation")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}

// List handles GET /api/v1/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := model.ListOptions{Limit: 20}

	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			opts.Limit = parsed
		}
	}
	opts.Folder = r.URL.Query().Get("folder")
	opts.Status = model.Status(r.URL.Query().Get("status"))

	resp, err := h.client.List(r.Context(), opts)
	if err != nil {
		h.logger.Error("failed to list conversations")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/conversations/:id
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.client.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// Update handles PUT /api/v1/conversations/:id
func (h *ConversationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UpdateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Label != "" {
		if err := middleware.ValidateLabel(req.Label); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := middleware.ValidateFolder(req.Folder); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.client.Update(r.Context(), id, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/conversations/:id
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.client.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /api/v1/conversations/search
func (h *ConversationHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req model.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	resp, err := h.client.Query(r.Context(), &req)
	if err != nil {
		h.logger.Error("search failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// importRequest is the body for a transcript import.
type importRequest struct {
	Transcript string `json:"transcript"`
	Label      string `json:"label"`
	Folder     string `json:"folder,omitempty"`
}

// Import handles POST /api/v1/conversations/import
func (h *ConversationHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateLabel(req.Label); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateFolder(req.Folder); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.importer.Import(r.Context(), req.Transcript, req.Label, req.Folder)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}
