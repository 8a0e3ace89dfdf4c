package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thevinciapp/vinci-hub/internal/model"
)

func TestHydrateRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	snap := model.Snapshot{
		Spaces: []model.Space{
			{ID: "s1", Name: "Work", Provider: "anthropic", CreatedAt: now, UpdatedAt: now},
		},
		ActiveSpace: &model.Space{ID: "s1", Name: "Work", Provider: "anthropic", CreatedAt: now, UpdatedAt: now},
		Conversations: []model.Conversation{
			{ID: "c1", SpaceID: "s1", Title: "Plans", CreatedAt: now, UpdatedAt: now},
		},
		ActiveConversation: &model.Conversation{ID: "c1", SpaceID: "s1", Title: "Plans", CreatedAt: now, UpdatedAt: now},
		Messages: []model.Message{
			{ID: "m1", ConversationID: "c1", Role: model.RoleUser, Content: "hi", Annotations: []string{"a"}, CreatedAt: now, UpdatedAt: now},
		},
		InitialDataLoaded: true,
	}

	assert.Equal(t, snap, FromPayload(Sanitize(snap)))
}

func TestHydrateEmptyAndBadTimestamps(t *testing.T) {
	snap := FromPayload(model.SnapshotPayload{
		Spaces: []model.SpacePayload{
			{ID: "s1", CreatedAt: "", UpdatedAt: "garbage"},
		},
	})

	require.Len(t, snap.Spaces, 1)
	assert.True(t, snap.Spaces[0].CreatedAt.IsZero())
	assert.True(t, snap.Spaces[0].UpdatedAt.IsZero())
	assert.NotNil(t, snap.Conversations)
	assert.NotNil(t, snap.Messages)
}
