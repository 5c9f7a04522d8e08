package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sekha-ai/sekha-workbench/internal/middleware"
	"github.com/sekha-ai/sekha-workbench/internal/service"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
)

// TagHandler exposes tag operations.
type TagHandler struct {
	tags   *service.TagManager
	logger *logger.Logger
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(tags *service.TagManager, log *logger.Logger) *TagHandler {
	return &TagHandler{tags: tags, logger: log}
}

type tagRequest struct {
	Tags []string `json:"tags"`
}

// Get handles GET /api/v1/conversations/:id/tags
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tags, err := h.tags.Tags(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}

// Add handles POST /api/v1/conversations/:id/tags
func (h *TagHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.tags.AddTags)
}

// Remove handles DELETE /api/v1/conversations/:id/tags
func (h *TagHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.tags.RemoveTags)
}

// Suggest handles POST /api/v1/conversations/:id/tags/suggest
func (h *TagHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	suggestions, err := h.tags.SuggestTags(r.Context(), id)
	if err != nil {
		h.logger.Error("tag suggestion failed")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// All handles GET /api/v1/tags
func (h *TagHandler) All(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tags.AllTags(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": stats})
}

// Filter handles GET /api/v1/tags/filter?tags=a,b
func (h *TagHandler) Filter(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tags")
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if err := middleware.ValidateTags(tags); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.tags.FilterByTags(r.Context(), tags)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"conversation_ids": ids})
}

func (h *TagHandler) mutate(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id string, tags []string) error) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateTags(req.Tags); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := apply(r.Context(), id, req.Tags); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
