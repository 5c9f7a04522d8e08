package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sekha-ai/sekha-workbench/internal/events"
	"github.com/sekha-ai/sekha-workbench/internal/llm"
	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/internal/sekha"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
	"github.com/sekha-ai/sekha-workbench/pkg/metrics"
)

// tagListLimit bounds the single listing page used for aggregate views.
// The memory service caps a listing call; the manager does not paginate
// beyond it.
const tagListLimit = 1000

const suggestPrompt = "Analyze this conversation and suggest 3-5 relevant tags. " +
	"Return only the tags as a comma-separated list, no explanations."

// TagManager mutates per-conversation tag sets and computes aggregate tag
// views across the conversation collection. Every mutation is an
// unguarded read-modify-write; concurrent external edits to the same
// conversation can be overwritten.
type TagManager struct {
	client    sekha.Client
	bridge    llm.Client
	publisher *events.Publisher
	logger    *logger.Logger
}

// NewTagManager creates a new tag manager. The bridge may be nil, in
// which case SuggestTags is unavailable. The publisher may be nil.
func NewTagManager(client sekha.Client, bridge llm.Client, pub *events.Publisher, log *logger.Logger) *TagManager {
	return &TagManager{
		client:    client,
		bridge:    bridge,
		publisher: pub,
		logger:    log,
	}
}

// AddTags unions tags into the conversation's tag set, preserving the
// existing tags' order and appending unseen tags in the order given.
func (m *TagManager) AddTags(ctx context.Context, id string, tags []string) error {
	conv, err := m.client.Get(ctx, id)
	if err != nil {
		return err
	}

	union := stableUnion(conv.Tags, tags)
	if err := m.client.Update(ctx, id, &model.UpdateConversationRequest{Tags: union}); err != nil {
		return err
	}

	metrics.TagOpsTotal.WithLabelValues("add").Inc()
	m.logger.Debug("tags added",
		zap.String("conversation_id", id),
		zap.Strings("tags", tags),
	)
	m.publisher.Publish(ctx, &model.WorkbenchEvent{
		Type:            model.EventTypeTagsAdded,
		ConversationIDs: []string{id},
		Metadata:        map[string]any{"tags": tags},
	})
	return nil
}

// RemoveTags removes tags from the conversation's tag set, preserving the
// order of the surviving tags. Tags not present are ignored.
func (m *TagManager) RemoveTags(ctx context.Context, id string, tags []string) error {
	conv, err := m.client.Get(ctx, id)
	if err != nil {
		return err
	}

	remaining := stableDifference(conv.Tags, tags)
	if err := m.client.Update(ctx, id, &model.UpdateConversationRequest{Tags: remaining}); err != nil {
		return err
	}

	metrics.TagOpsTotal.WithLabelValues("remove").Inc()
	m.logger.Debug("tags removed",
		zap.String("conversation_id", id),
		zap.Strings("tags", tags),
	)
	m.publisher.Publish(ctx, &model.WorkbenchEvent{
		Type:            model.EventTypeTagsRemoved,
		ConversationIDs: []string{id},
		Metadata:        map[string]any{"tags": tags},
	})
	return nil
}

// Tags returns the conversation's tags, or an empty slice if unset.
func (m *TagManager) Tags(ctx context.Context, id string) ([]string, error) {
	conv, err := m.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.Tags == nil {
		return []string{}, nil
	}
	return conv.Tags, nil
}

// AllTags counts tag occurrences across one bounded page of conversations
// and returns them sorted by count descending, ties kept in first-seen
// order.
func (m *TagManager) AllTags(ctx context.Context) ([]model.TagStat, error) {
	resp, err := m.client.List(ctx, model.ListOptions{Limit: tagListLimit})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var seen []string
	for _, conv := range resp.Conversations {
		for _, tag := range conv.Tags {
			if _, ok := counts[tag]; !ok {
				seen = append(seen, tag)
			}
			counts[tag]++
		}
	}

	stats := make([]model.TagStat, 0, len(seen))
	for _, tag := range seen {
		stats = append(stats, model.TagStat{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats, nil
}

// SuggestTags asks the AI bridge for 3-5 tags describing the
// conversation. Bridge failures propagate to the caller; there is no
// silent empty-list fallback.
func (m *TagManager) SuggestTags(ctx context.Context, id string) ([]string, error) {
	if m.bridge == nil {
		return nil, fmt.Errorf("tag suggestion requires an LLM bridge")
	}

	conv, err := m.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	transcript, err := json.Marshal(conv.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode messages: %w", err)
	}

	resp, err := m.bridge.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.ChatMessage{
			{Role: "system", Content: suggestPrompt},
			{Role: "user", Content: string(transcript)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("tag suggestion failed: %w", err)
	}

	var suggestions []string
	for _, part := range strings.Split(resp.Content, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			suggestions = append(suggestions, tag)
		}
	}

	metrics.TagOpsTotal.WithLabelValues("suggest").Inc()
	return suggestions, nil
}

// FilterByTags returns the IDs of conversations whose tag set intersects
// tags (any match qualifies), in source list order.
func (m *TagManager) FilterByTags(ctx context.Context, tags []string) ([]string, error) {
	resp, err := m.client.List(ctx, model.ListOptions{Limit: tagListLimit})
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[tag] = struct{}{}
	}

	var ids []string
	for _, conv := range resp.Conversations {
		for _, tag := range conv.Tags {
			if _, ok := wanted[tag]; ok {
				ids = append(ids, conv.ID)
				break
			}
		}
	}
	return ids, nil
}

// stableUnion appends the elements of add not already in base, preserving
// base's order. The result is never nil so an emptied set still encodes
// as a JSON array.
func stableUnion(base, add []string) []string {
	out := make([]string, 0, len(base)+len(add))
	seen := make(map[string]struct{}, len(base)+len(add))
	for _, v := range base {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	for _, v := range add {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// stableDifference removes the elements of drop from base, preserving the
// order of the survivors. Never nil, same reason as stableUnion.
func stableDifference(base, drop []string) []string {
	dropped := make(map[string]struct{}, len(drop))
	for _, v := range drop {
		dropped[v] = struct{}{}
	}
	out := make([]string, 0, len(base))
	for _, v := range base {
		if _, ok := dropped[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
