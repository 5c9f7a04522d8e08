package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
)

func TestParseTranscript(t *testing.T) {
	content := `User: how do I read a file?
Assistant: use os.ReadFile.
It returns the whole file as a byte slice.
User: thanks!`

	msgs := ParseTranscript(content)
	require.Len(t, msgs, 3)

	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "how do I read a file?", msgs[0].Content.Display())

	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "use os.ReadFile.\nIt returns the whole file as a byte slice.", msgs[1].Content.Display())

	assert.Equal(t, model.RoleUser, msgs[2].Role)
	assert.Equal(t, "thanks!", msgs[2].Content.Display())
}

func TestParseTranscriptSystemRole(t *testing.T) {
	msgs := ParseTranscript("System: be terse\nUser: hi")
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleSystem, msgs[0].Role)
}

func TestParseTranscriptIgnoresPreamble(t *testing.T) {
	msgs := ParseTranscript("some notes\nmore notes\nUser: actual start")
	require.Len(t, msgs, 1)
	assert.Equal(t, "actual start", msgs[0].Content.Display())
}

func TestParseTranscriptEmpty(t *testing.T) {
	assert.Empty(t, ParseTranscript(""))
	assert.Empty(t, ParseTranscript("no markers here at all"))
}

func TestImportRejectsEmptyTranscript(t *testing.T) {
	client := &fakeClient{}
	s := NewImportService(client, nil, logger.NewNop())

	_, err := s.Import(context.Background(), "nothing parseable", "Label", "/")
	require.ErrorIs(t, err, ErrEmptyTranscript)
	assert.Empty(t, client.callLog())
}

func TestImportCreatesConversation(t *testing.T) {
	var created *model.CreateConversationRequest
	client := &fakeClient{
		createFn: func(_ context.Context, req *model.CreateConversationRequest) (*model.Conversation, error) {
			created = req
			return &model.Conversation{ID: "new", Label: req.Label}, nil
		},
	}
	s := NewImportService(client, nil, logger.NewNop())

	conv, err := s.Import(context.Background(), "User: hello", "Saved", "/imports")
	require.NoError(t, err)
	assert.Equal(t, "new", conv.ID)
	require.NotNil(t, created)
	assert.Equal(t, "Saved", created.Label)
	assert.Equal(t, "/imports", created.Folder)
	require.Len(t, created.Messages, 1)
}
