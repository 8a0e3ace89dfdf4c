package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/state"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
)

func newSessionService(gw Gateway) (*SessionService, *state.Store) {
	store := state.New()
	return NewSessionService(gw, store, logger.NewNop()), store
}

func TestSessionSetLoadsInitialData(t *testing.T) {
	gw := newFakeGateway()
	gw.spaces = []model.Space{{ID: "s1"}, {ID: "s2"}}
	gw.activeSpace = &model.Space{ID: "s1"}
	gw.convs = []model.Conversation{{ID: "c1", SpaceID: "s1"}}
	gw.msgs["c1"] = []model.Message{{ID: "m1", ConversationID: "c1"}}
	svc, store := newSessionService(gw)

	err := svc.Set(context.Background(), &model.SetSessionRequest{AccessToken: "tok", UserID: "u1"})
	require.NoError(t, err)
	assert.True(t, gw.HasSession())

	snap := store.Snapshot()
	assert.True(t, snap.InitialDataLoaded)
	assert.Len(t, snap.Spaces, 2)
	require.NotNil(t, snap.ActiveSpace)
	assert.Equal(t, "s1", snap.ActiveSpace.ID)
	require.NotNil(t, snap.ActiveConversation)
	assert.Equal(t, "c1", snap.ActiveConversation.ID)
	require.Len(t, snap.Messages, 1)
}

func TestSessionSetWithoutActiveSpace(t *testing.T) {
	gw := newFakeGateway()
	gw.spaces = []model.Space{{ID: "s1"}}
	svc, store := newSessionService(gw)

	err := svc.Set(context.Background(), &model.SetSessionRequest{AccessToken: "tok"})
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.True(t, snap.InitialDataLoaded)
	assert.Nil(t, snap.ActiveSpace)
	assert.NotNil(t, snap.Conversations)
	assert.Empty(t, snap.Conversations)
	assert.NotContains(t, gw.callsMade(), "FetchConversations:s1")
}

func TestSessionSetRequiresToken(t *testing.T) {
	svc, _ := newSessionService(newFakeGateway())

	err := svc.Set(context.Background(), &model.SetSessionRequest{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestSessionSetFailureClearsToken(t *testing.T) {
	gw := newFakeGateway()
	gw.activeSpace = &model.Space{ID: "s1"}
	gw.fetchConvsFn = func(string) ([]model.Conversation, error) {
		return nil, &NotFoundError{Msg: "unavailable"}
	}
	svc, store := newSessionService(gw)

	err := svc.Set(context.Background(), &model.SetSessionRequest{AccessToken: "tok"})
	require.Error(t, err)
	assert.False(t, gw.HasSession(), "failed load removes the token again")
	assert.False(t, store.Snapshot().InitialDataLoaded, "store untouched on failure")
}

func TestSessionUserChangeCallback(t *testing.T) {
	gw := newFakeGateway()
	svc, _ := newSessionService(gw)

	var seen []string
	svc.OnUserChange(func(userID string) { seen = append(seen, userID) })

	require.NoError(t, svc.Set(context.Background(), &model.SetSessionRequest{AccessToken: "tok", UserID: "u1"}))
	svc.Clear(context.Background())

	assert.Equal(t, []string{"u1", ""}, seen)
}

func TestSessionClearResetsSnapshot(t *testing.T) {
	gw := newFakeGateway()
	gw.SetSession("tok")
	svc, store := newSessionService(gw)
	store.Replace(model.Snapshot{
		Spaces:            []model.Space{{ID: "s1"}},
		ActiveSpace:       &model.Space{ID: "s1"},
		InitialDataLoaded: true,
	})

	svc.Clear(context.Background())

	assert.False(t, gw.HasSession())
	snap := store.Snapshot()
	assert.Empty(t, snap.Spaces)
	assert.Nil(t, snap.ActiveSpace)
	assert.False(t, snap.InitialDataLoaded)
}
