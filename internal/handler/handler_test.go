package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/internal/sekha"
	"github.com/sekha-ai/sekha-workbench/internal/service"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
)

// stubClient serves a fixed conversation set for handler tests.
type stubClient struct {
	convs map[string]*model.Conversation
}

func (s *stubClient) Create(_ context.Context, req *model.CreateConversationRequest) (*model.Conversation, error) {
	return &model.Conversation{
		ID:       "created",
		Label:    req.Label,
		Folder:   req.Folder,
		Tags:     req.Tags,
		Messages: req.Messages,
	}, nil
}

func (s *stubClient) Get(_ context.Context, id string) (*model.Conversation, error) {
	conv, ok := s.convs[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, sekha.ErrNotFound)
	}
	return conv, nil
}

func (s *stubClient) Update(_ context.Context, id string, _ *model.UpdateConversationRequest) error {
	if _, ok := s.convs[id]; !ok {
		return fmt.Errorf("update %s: %w", id, sekha.ErrNotFound)
	}
	return nil
}

func (s *stubClient) Delete(_ context.Context, id string) error {
	delete(s.convs, id)
	return nil
}

func (s *stubClient) List(_ context.Context, _ model.ListOptions) (*model.ListConversationsResponse, error) {
	resp := &model.ListConversationsResponse{Total: len(s.convs)}
	for _, conv := range s.convs {
		resp.Conversations = append(resp.Conversations, *conv)
	}
	return resp, nil
}

func (s *stubClient) SetStatus(_ context.Context, id string, status model.Status) error {
	conv, ok := s.convs[id]
	if !ok {
		return fmt.Errorf("status %s: %w", id, sekha.ErrNotFound)
	}
	conv.Status = status
	return nil
}

func (s *stubClient) Query(_ context.Context, _ *model.QueryRequest) (*model.QueryResponse, error) {
	return &model.QueryResponse{}, nil
}

func newTestRouter(client sekha.Client) (chi.Router, *service.SelectionManager) {
	log := logger.NewNop()
	sel := service.NewSelectionManager()
	mergeSvc := service.NewMergeService(client, nil, log)
	tags := service.NewTagManager(client, nil, nil, log)
	batchSvc := service.NewBatchService(client, sel, tags, nil, log)

	r := chi.NewRouter()
	mergeHandler := NewMergeHandler(mergeSvc, log)
	selectionHandler := NewSelectionHandler(sel)
	batchHandler := NewBatchHandler(batchSvc, log)

	r.Post("/merge", mergeHandler.Merge)
	r.Route("/selection", func(r chi.Router) {
		r.Get("/", selectionHandler.Get)
		r.Put("/", selectionHandler.Put)
		r.Delete("/", selectionHandler.Clear)
		r.Post("/{id}/toggle", selectionHandler.Toggle)
	})
	r.Route("/batch", func(r chi.Router) {
		r.Post("/pin", batchHandler.Pin)
		r.Post("/unpin", batchHandler.Unpin)
		r.Post("/archive", batchHandler.Archive)
		r.Post("/delete", batchHandler.Delete)
		r.Post("/move", batchHandler.Move)
		r.Post("/tags", batchHandler.AddTags)
	})
	return r, sel
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestMergeEndpoint(t *testing.T) {
	client := &stubClient{convs: map[string]*model.Conversation{
		"a": {ID: "a", Label: "Alpha", Messages: []model.Message{
			{Role: model.RoleUser, Content: model.Text("hi")},
		}},
		"b": {ID: "b", Label: "Beta", Messages: []model.Message{
			{Role: model.RoleUser, Content: model.Text("yo")},
		}},
	}}
	r, _ := newTestRouter(client)

	rec := doJSON(t, r, http.MethodPost, "/merge", map[string]any{
		"ids": []string{"a", "b"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var result model.MergeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Merged: Alpha, Beta", result.Conversation.Label)
	assert.Len(t, result.Conversation.Messages, 2)
}

func TestMergeEndpointRejectsSingleSource(t *testing.T) {
	r, _ := newTestRouter(&stubClient{convs: map[string]*model.Conversation{}})

	rec := doJSON(t, r, http.MethodPost, "/merge", map[string]any{
		"ids": []string{"a"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMergeEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(&stubClient{convs: map[string]*model.Conversation{}})

	rec := doJSON(t, r, http.MethodPost, "/merge", map[string]any{
		"ids": []string{"a", "b"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMergeEndpointRejectsDuplicateIDs(t *testing.T) {
	r, _ := newTestRouter(&stubClient{convs: map[string]*model.Conversation{}})

	rec := doJSON(t, r, http.MethodPost, "/merge", map[string]any{
		"ids": []string{"a", "a"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchArchiveEndpoint(t *testing.T) {
	client := &stubClient{convs: map[string]*model.Conversation{
		"a": {ID: "a"},
		"b": {ID: "b"},
	}}
	r, sel := newTestRouter(client)
	sel.SelectRange([]string{"a", "b"})

	rec := doJSON(t, r, http.MethodPost, "/batch/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Affected int `json:"affected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Affected)
	assert.Equal(t, model.StatusArchived, client.convs["a"].Status)
	assert.Equal(t, model.StatusArchived, client.convs["b"].Status)
	assert.False(t, sel.HasSelection())
}

func TestBatchEndpointEmptySelection(t *testing.T) {
	r, _ := newTestRouter(&stubClient{convs: map[string]*model.Conversation{}})

	rec := doJSON(t, r, http.MethodPost, "/batch/pin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchMoveEndpointRequiresFolder(t *testing.T) {
	r, sel := newTestRouter(&stubClient{convs: map[string]*model.Conversation{
		"a": {ID: "a"},
	}})
	sel.Select("a")

	rec := doJSON(t, r, http.MethodPost, "/batch/move", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/batch/move", map[string]any{
		"folder": "/archive",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSelectionEndpoints(t *testing.T) {
	r, sel := newTestRouter(&stubClient{convs: map[string]*model.Conversation{}})

	rec := doJSON(t, r, http.MethodPut, "/selection", map[string]any{
		"ids": []string{"a", "b"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Selected []string `json:"selected"`
		Count    int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a", "b"}, resp.Selected)
	assert.Equal(t, 2, resp.Count)

	rec = doJSON(t, r, http.MethodPost, "/selection/a/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sel.IsSelected("a"))

	rec = doJSON(t, r, http.MethodDelete, "/selection", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, sel.HasSelection())
}

func TestSelectionReplace(t *testing.T) {
	r, sel := newTestRouter(&stubClient{convs: map[string]*model.Conversation{}})
	sel.Select("old")

	rec := doJSON(t, r, http.MethodPut, "/selection", map[string]any{
		"ids":     []string{"x"},
		"replace": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"x"}, sel.Selected())
}
