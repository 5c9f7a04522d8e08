package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/internal/sekha"
)

func notFoundErr(id string) error {
	return fmt.Errorf("get %s: %w", id, sekha.ErrNotFound)
}

// fakeClient is a test double for sekha.Client that records every call
// in order.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	createFn    func(ctx context.Context, req *model.CreateConversationRequest) (*model.Conversation, error)
	getFn       func(ctx context.Context, id string) (*model.Conversation, error)
	updateFn    func(ctx context.Context, id string, req *model.UpdateConversationRequest) error
	deleteFn    func(ctx context.Context, id string) error
	listFn      func(ctx context.Context, opts model.ListOptions) (*model.ListConversationsResponse, error)
	setStatusFn func(ctx context.Context, id string, status model.Status) error
	queryFn     func(ctx context.Context, req *model.QueryRequest) (*model.QueryResponse, error)
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeClient) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeClient) Create(ctx context.Context, req *model.CreateConversationRequest) (*model.Conversation, error) {
	f.record("create")
	if f.createFn == nil {
		return nil, fmt.Errorf("unexpected Create call")
	}
	return f.createFn(ctx, req)
}

func (f *fakeClient) Get(ctx context.Context, id string) (*model.Conversation, error) {
	f.record("get:" + id)
	if f.getFn == nil {
		return nil, fmt.Errorf("unexpected Get call for %s", id)
	}
	return f.getFn(ctx, id)
}

func (f *fakeClient) Update(ctx context.Context, id string, req *model.UpdateConversationRequest) error {
	f.record("update:" + id)
	if f.updateFn == nil {
		return fmt.Errorf("unexpected Update call for %s", id)
	}
	return f.updateFn(ctx, id, req)
}

func (f *fakeClient) Delete(ctx context.Context, id string) error {
	f.record("delete:" + id)
	if f.deleteFn == nil {
		return fmt.Errorf("unexpected Delete call for %s", id)
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeClient) List(ctx context.Context, opts model.ListOptions) (*model.ListConversationsResponse, error) {
	f.record("list")
	if f.listFn == nil {
		return nil, fmt.Errorf("unexpected List call")
	}
	return f.listFn(ctx, opts)
}

func (f *fakeClient) SetStatus(ctx context.Context, id string, status model.Status) error {
	f.record(fmt.Sprintf("status:%s:%s", id, status))
	if f.setStatusFn == nil {
		return fmt.Errorf("unexpected SetStatus call for %s", id)
	}
	return f.setStatusFn(ctx, id, status)
}

func (f *fakeClient) Query(ctx context.Context, req *model.QueryRequest) (*model.QueryResponse, error) {
	f.record("query")
	if f.queryFn == nil {
		return nil, fmt.Errorf("unexpected Query call")
	}
	return f.queryFn(ctx, req)
}

// conversationStore backs a fakeClient with an in-memory map keyed by ID,
// for tests that only need plain Get/Update behavior.
func conversationStore(convs map[string]*model.Conversation) *fakeClient {
	f := &fakeClient{}
	f.getFn = func(_ context.Context, id string) (*model.Conversation, error) {
		conv, ok := convs[id]
		if !ok {
			return nil, notFoundErr(id)
		}
		cp := *conv
		return &cp, nil
	}
	f.updateFn = func(_ context.Context, id string, req *model.UpdateConversationRequest) error {
		conv, ok := convs[id]
		if !ok {
			return notFoundErr(id)
		}
		if req.Tags != nil {
			conv.Tags = req.Tags
		}
		if req.Label != "" {
			conv.Label = req.Label
		}
		if req.Folder != "" {
			conv.Folder = req.Folder
		}
		return nil
	}
	return f
}
