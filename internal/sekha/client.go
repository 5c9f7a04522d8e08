// Package sekha provides the typed client for the Sekha memory service,
// the external system of record for conversations.
package sekha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/pkg/metrics"
)

// Client is the interface to the memory service. All workbench services
// depend on this interface rather than the HTTP implementation so tests
// can substitute a double.
type Client interface {
	Create(ctx context.Context, req *model.CreateConversationRequest) (*model.Conversation, error)
	Get(ctx context.Context, id string) (*model.Conversation, error)
	Update(ctx context.Context, id string, req *model.UpdateConversationRequest) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts model.ListOptions) (*model.ListConversationsResponse, error)
	SetStatus(ctx context.Context, id string, status model.Status) error
	Query(ctx context.Context, req *model.QueryRequest) (*model.QueryResponse, error)
}

// HTTPClient talks to the memory service over its REST API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config holds connection settings for the memory service.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewHTTPClient creates a client for the memory service REST API.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("sekha: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Create creates a new conversation and returns it with server-assigned
// ID and timestamps.
func (c *HTTPClient) Create(ctx context.Context, req *model.CreateConversationRequest) (*model.Conversation, error) {
	var conv model.Conversation
	if err := c.do(ctx, http.MethodPost, "/api/v1/conversations", req, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// Get retrieves a conversation by ID. Returns ErrNotFound if the ID does
// not resolve.
func (c *HTTPClient) Get(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/v1/conversations/"+url.PathEscape(id), nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// Update applies a partial update to a conversation.
func (c *HTTPClient) Update(ctx context.Context, id string, req *model.UpdateConversationRequest) error {
	return c.do(ctx, http.MethodPut, "/api/v1/conversations/"+url.PathEscape(id), req, nil)
}

// Delete removes a conversation.
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/conversations/"+url.PathEscape(id), nil, nil)
}

// List retrieves a single bounded page of conversations. The service caps
// the page size; the client does not paginate further.
func (c *HTTPClient) List(ctx context.Context, opts model.ListOptions) (*model.ListConversationsResponse, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Folder != "" {
		q.Set("folder", opts.Folder)
	}
	if opts.Status != "" {
		q.Set("status", string(opts.Status))
	}
	path := "/api/v1/conversations"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp model.ListConversationsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetStatus changes a conversation's lifecycle status.
func (c *HTTPClient) SetStatus(ctx context.Context, id string, status model.Status) error {
	body := map[string]model.Status{"status": status}
	return c.do(ctx, http.MethodPut, "/api/v1/conversations/"+url.PathEscape(id)+"/status", body, nil)
}

// Query runs a semantic search across stored conversations.
func (c *HTTPClient) Query(ctx context.Context, req *model.QueryRequest) (*model.QueryResponse, error) {
	var resp model.QueryResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("sekha: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("sekha: failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordSekhaCall(method, "error", time.Since(start).Seconds())
		return fmt.Errorf("sekha: request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.RecordSekhaCall(method, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("sekha: %s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServiceError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("sekha: failed to decode response: %w", err)
		}
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}
