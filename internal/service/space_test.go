package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/state"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
)

func newSpaceService(gw Gateway) (*SpaceService, *state.Store) {
	store := state.New()
	return NewSpaceService(gw, store, logger.NewNop()), store
}

func TestSpaceCreateReplacesView(t *testing.T) {
	gw := newFakeGateway()
	created := model.Space{ID: "s2", Name: "Research"}
	gw.spaceView = &model.SpaceView{
		Spaces:      []model.Space{{ID: "s1", Name: "Work"}, created},
		ActiveSpace: &created,
		Conversations: []model.Conversation{
			{ID: "c-default", SpaceID: "s2", Title: "New Conversation"},
		},
	}
	svc, store := newSpaceService(gw)
	store.Replace(model.Snapshot{
		Spaces:      []model.Space{{ID: "s1", Name: "Work"}},
		ActiveSpace: &model.Space{ID: "s1"},
		Messages:    []model.Message{{ID: "m-old"}},
	})

	sp, err := svc.Create(context.Background(), &model.CreateSpaceRequest{Name: "Research"})
	require.NoError(t, err)
	assert.Equal(t, "s2", sp.ID)

	snap := store.Snapshot()
	assert.Len(t, snap.Spaces, 2)
	require.NotNil(t, snap.ActiveSpace)
	assert.Equal(t, "s2", snap.ActiveSpace.ID)
	require.NotNil(t, snap.ActiveConversation)
	assert.Equal(t, "c-default", snap.ActiveConversation.ID)
	assert.Empty(t, snap.Messages, "old messages do not survive the view replace")
}

func TestSpaceCreateRequiresName(t *testing.T) {
	svc, _ := newSpaceService(newFakeGateway())

	_, err := svc.Create(context.Background(), &model.CreateSpaceRequest{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestSpaceUpdateMirrorsActiveSpace(t *testing.T) {
	gw := newFakeGateway()
	gw.updateSpaceFn = func(spaceID string, req *model.UpdateSpaceRequest) (*model.Space, error) {
		return &model.Space{ID: spaceID, Name: req.Name, Provider: "anthropic"}, nil
	}
	svc, store := newSpaceService(gw)
	store.Replace(model.Snapshot{
		Spaces:      []model.Space{{ID: "s1", Name: "Old"}},
		ActiveSpace: &model.Space{ID: "s1", Name: "Old"},
	})

	_, err := svc.Update(context.Background(), "s1", &model.UpdateSpaceRequest{Name: "Renamed"})
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Equal(t, "Renamed", snap.Spaces[0].Name)
	assert.Equal(t, "Renamed", snap.ActiveSpace.Name)
}

func TestSpaceUpdateModelForUnknownSpaceIsNoOp(t *testing.T) {
	gw := newFakeGateway()
	svc, store := newSpaceService(gw)
	store.Replace(model.Snapshot{
		Spaces: []model.Space{{ID: "s1", Model: "claude-sonnet"}},
	})

	err := svc.UpdateModel(context.Background(), "ghost", "gpt-4o", "openai")
	require.NoError(t, err, "stale reference reports success")

	assert.Equal(t, "claude-sonnet", store.Snapshot().Spaces[0].Model)
	assert.NotContains(t, gw.callsMade(), "UpdateSpaceModel:ghost",
		"no remote call for a space absent from the store")
}

func TestSpaceUpdateModelMirrorsActive(t *testing.T) {
	gw := newFakeGateway()
	svc, store := newSpaceService(gw)
	store.Replace(model.Snapshot{
		Spaces:      []model.Space{{ID: "s1", Model: "old", Provider: "openai"}},
		ActiveSpace: &model.Space{ID: "s1", Model: "old", Provider: "openai"},
	})

	err := svc.UpdateModel(context.Background(), "s1", "claude-sonnet-4", "anthropic")
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Equal(t, "claude-sonnet-4", snap.Spaces[0].Model)
	assert.Equal(t, "anthropic", snap.ActiveSpace.Provider)
}

func TestSpaceSetActiveLoadsConversationsAndMessages(t *testing.T) {
	gw := newFakeGateway()
	gw.spaces = []model.Space{{ID: "s2", Name: "Research"}}
	gw.convs = []model.Conversation{
		{ID: "c1", SpaceID: "s2"},
		{ID: "c2", SpaceID: "s2"},
	}
	gw.msgs["c1"] = []model.Message{{ID: "m1", ConversationID: "c1"}}
	svc, store := newSpaceService(gw)
	store.Replace(model.Snapshot{
		Spaces:      []model.Space{{ID: "s1"}, {ID: "s2"}},
		ActiveSpace: &model.Space{ID: "s1"},
	})

	sp, err := svc.SetActive(context.Background(), "s2")
	require.NoError(t, err)
	assert.Equal(t, "s2", sp.ID)

	snap := store.Snapshot()
	assert.Equal(t, "s2", snap.ActiveSpace.ID)
	assert.Len(t, snap.Conversations, 2)
	require.NotNil(t, snap.ActiveConversation)
	assert.Equal(t, "c1", snap.ActiveConversation.ID)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "m1", snap.Messages[0].ID)
}

func TestSpaceSetActiveFailureResetsActiveSlice(t *testing.T) {
	gw := newFakeGateway()
	gw.spaces = []model.Space{{ID: "s1"}, {ID: "s2"}}
	gw.fetchConvsFn = func(string) ([]model.Conversation, error) {
		return nil, &NotFoundError{Msg: "gone"}
	}
	svc, store := newSpaceService(gw)
	store.Replace(model.Snapshot{
		Spaces:             []model.Space{{ID: "s1"}, {ID: "s2"}},
		ActiveSpace:        &model.Space{ID: "s1"},
		ActiveConversation: &model.Conversation{ID: "c1"},
		Messages:           []model.Message{{ID: "m1"}},
	})

	_, err := svc.SetActive(context.Background(), "s2")
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Nil(t, snap.ActiveSpace, "unconfirmed space never becomes active")
	assert.Nil(t, snap.ActiveConversation)
	assert.Empty(t, snap.Messages)
	assert.Len(t, snap.Spaces, 2, "space list refreshed from the backend")
}

func TestSpaceDeleteNonActiveLeavesActiveAlone(t *testing.T) {
	gw := newFakeGateway()
	svc, store := newSpaceService(gw)
	store.Replace(model.Snapshot{
		Spaces:      []model.Space{{ID: "s1"}, {ID: "s2"}},
		ActiveSpace: &model.Space{ID: "s1"},
	})

	require.NoError(t, svc.Delete(context.Background(), "s2"))

	snap := store.Snapshot()
	assert.Len(t, snap.Spaces, 1)
	assert.Equal(t, "s1", snap.ActiveSpace.ID)
}

func TestSpaceDeleteActivePromotesMostRecentlyUpdated(t *testing.T) {
	gw := newFakeGateway()
	gw.convs = []model.Conversation{{ID: "c9", SpaceID: "s3"}}
	gw.msgs["c9"] = []model.Message{{ID: "m9", ConversationID: "c9"}}
	svc, store := newSpaceService(gw)

	now := time.Now()
	store.Replace(model.Snapshot{
		Spaces: []model.Space{
			{ID: "s1", UpdatedAt: now},
			{ID: "s2", UpdatedAt: now.Add(-time.Hour)},
			{ID: "s3", UpdatedAt: now.Add(time.Hour)},
		},
		ActiveSpace: &model.Space{ID: "s1", UpdatedAt: now},
	})

	require.NoError(t, svc.Delete(context.Background(), "s1"))

	snap := store.Snapshot()
	assert.Len(t, snap.Spaces, 2)
	require.NotNil(t, snap.ActiveSpace)
	assert.Equal(t, "s3", snap.ActiveSpace.ID)
	require.NotNil(t, snap.ActiveConversation)
	assert.Equal(t, "c9", snap.ActiveConversation.ID)
	assert.Equal(t, "m9", snap.Messages[0].ID)
	assert.Contains(t, gw.callsMade(), "SetActiveSpace:s3")
}

func TestSpaceDeleteLastSpaceClearsActive(t *testing.T) {
	gw := newFakeGateway()
	svc, store := newSpaceService(gw)
	store.Replace(model.Snapshot{
		Spaces:      []model.Space{{ID: "s1"}},
		ActiveSpace: &model.Space{ID: "s1"},
		Messages:    []model.Message{{ID: "m1"}},
	})

	require.NoError(t, svc.Delete(context.Background(), "s1"))

	snap := store.Snapshot()
	assert.Empty(t, snap.Spaces)
	assert.Nil(t, snap.ActiveSpace)
	assert.Nil(t, snap.ActiveConversation)
	assert.Empty(t, snap.Messages)
}
