package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thevinciapp/vinci-hub/internal/model"
)

func TestSanitizeEmptySnapshot(t *testing.T) {
	out := Sanitize(model.Snapshot{})

	assert.NotNil(t, out.Spaces)
	assert.NotNil(t, out.Conversations)
	assert.NotNil(t, out.Messages)
	assert.Empty(t, out.Spaces)
	assert.Nil(t, out.ActiveSpace)
	assert.Nil(t, out.ActiveConversation)
	assert.False(t, out.InitialDataLoaded)
}

func TestSanitizeTimestamps(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	created := time.Date(2025, 3, 14, 9, 26, 53, 589793000, loc)

	out := Sanitize(model.Snapshot{
		Spaces: []model.Space{{ID: "s1", CreatedAt: created}},
	})

	require.Len(t, out.Spaces, 1)
	assert.Equal(t, "2025-03-14T17:26:53.589793Z", out.Spaces[0].CreatedAt)
	assert.Equal(t, "", out.Spaces[0].UpdatedAt, "zero time sanitizes to empty string")
}

func TestSanitizeDeterministic(t *testing.T) {
	snap := model.Snapshot{
		Spaces:      []model.Space{{ID: "s1", Name: "Work", CreatedAt: time.Now()}},
		ActiveSpace: &model.Space{ID: "s1", Name: "Work"},
		Conversations: []model.Conversation{
			{ID: "c1", SpaceID: "s1", Title: "Hello"},
		},
		ActiveConversation: &model.Conversation{ID: "c1", SpaceID: "s1"},
		Messages: []model.Message{
			{ID: "m1", ConversationID: "c1", Role: model.RoleUser, Content: "hi"},
		},
		InitialDataLoaded: true,
	}

	assert.Equal(t, Sanitize(snap), Sanitize(snap))
}

func TestSanitizeMessageAnnotationsNeverNil(t *testing.T) {
	out := Sanitize(model.Snapshot{
		Messages: []model.Message{
			{ID: "m1", ConversationID: "c1"},
			{ID: "m2", ConversationID: "c1", Annotations: []string{"cited"}},
		},
	})

	require.Len(t, out.Messages, 2)
	assert.NotNil(t, out.Messages[0].Annotations)
	assert.Empty(t, out.Messages[0].Annotations)
	assert.Equal(t, []string{"cited"}, out.Messages[1].Annotations)
}

func TestSanitizeDropsNonSerializableConfig(t *testing.T) {
	out := Sanitize(model.Snapshot{
		ActiveSpace: &model.Space{
			ID: "s1",
			ChatModeConfig: map[string]any{
				"temperature": 0.7,
				"tools":       []any{"search", func() {}},
				"callback":    func() {},
				"nested":      map[string]any{"depth": 2, "ch": make(chan int)},
			},
		},
	})

	require.NotNil(t, out.ActiveSpace)
	cfg := out.ActiveSpace.ChatModeConfig
	assert.Equal(t, 0.7, cfg["temperature"])
	assert.Equal(t, []any{"search"}, cfg["tools"])
	assert.NotContains(t, cfg, "callback")
	assert.Equal(t, map[string]any{"depth": 2}, cfg["nested"])
}

func TestSanitizeDoesNotAliasInput(t *testing.T) {
	snap := model.Snapshot{
		Messages: []model.Message{
			{ID: "m1", ConversationID: "c1", Annotations: []string{"a"}},
		},
	}

	out := Sanitize(snap)
	out.Messages[0].Annotations[0] = "mutated"

	assert.Equal(t, "a", snap.Messages[0].Annotations[0])
}
