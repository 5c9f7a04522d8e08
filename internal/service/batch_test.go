package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/internal/sekha"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
)

func newBatchFixture(client *fakeClient, ids ...string) (*BatchService, *SelectionManager) {
	sel := NewSelectionManager()
	sel.SelectRange(ids)
	tags := NewTagManager(client, nil, nil, logger.NewNop())
	return NewBatchService(client, sel, tags, nil, logger.NewNop()), sel
}

func TestBatchRequiresSelection(t *testing.T) {
	client := &fakeClient{}
	batch, _ := newBatchFixture(client)

	_, err := batch.Archive(context.Background())
	require.ErrorIs(t, err, ErrEmptySelection)
	assert.Empty(t, client.callLog())
}

func TestBatchArchiveClearsSelection(t *testing.T) {
	client := &fakeClient{
		setStatusFn: func(_ context.Context, id string, status model.Status) error {
			return nil
		},
	}
	batch, sel := newBatchFixture(client, "a", "b", "c")

	n, err := batch.Archive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, sel.HasSelection(), "selection is cleared after commit")
	assert.Len(t, client.callLog(), 3)
}

func TestBatchFailureKeepsSelection(t *testing.T) {
	client := &fakeClient{
		deleteFn: func(_ context.Context, id string) error {
			if id == "b" {
				return notFoundErr(id)
			}
			return nil
		},
	}
	batch, sel := newBatchFixture(client, "a", "b")

	_, err := batch.Delete(context.Background())
	require.ErrorIs(t, err, sekha.ErrNotFound)
	assert.Equal(t, []string{"a", "b"}, sel.Selected(), "failed batch leaves the selection intact")
}

func TestBatchMoveUpdatesFolder(t *testing.T) {
	var folders []string
	client := &fakeClient{
		updateFn: func(_ context.Context, id string, req *model.UpdateConversationRequest) error {
			folders = append(folders, req.Folder)
			return nil
		},
	}
	batch, _ := newBatchFixture(client, "a")

	n, err := batch.Move(context.Background(), "/archive/2024")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"/archive/2024"}, folders)
}

func TestBatchAddTagsAppliesToEverySelected(t *testing.T) {
	convs := map[string]*model.Conversation{
		"a": {ID: "a", Tags: []string{"old"}},
		"b": {ID: "b"},
	}
	client := conversationStore(convs)
	batch, _ := newBatchFixture(client, "a", "b")

	n, err := batch.AddTags(context.Background(), []string{"new"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"old", "new"}, convs["a"].Tags)
	assert.Equal(t, []string{"new"}, convs["b"].Tags)
}
