package service

import (
	"context"

	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/state"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
)

// SessionService propagates a backend session into the synchronized state.
// Token issuance and refresh belong to the backend's auth service; the hub
// only installs the resulting token and performs the initial data load.
type SessionService struct {
	gw     Gateway
	store  *state.Store
	onUser func(userID string)
	logger *logger.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(gw Gateway, store *state.Store, log *logger.Logger) *SessionService {
	return &SessionService{gw: gw, store: store, logger: log}
}

// OnUserChange registers a callback invoked with the user id after a session
// is installed, and with an empty id after it is cleared.
func (s *SessionService) OnUserChange(fn func(userID string)) {
	s.onUser = fn
}

// Set installs the access token into the gateway and loads the initial
// snapshot: spaces, the active space, its conversations and the first
// conversation's messages. On any remote failure the token is removed again
// and the store stays untouched.
func (s *SessionService) Set(ctx context.Context, req *model.SetSessionRequest) error {
	if req == nil || req.AccessToken == "" {
		return validationf("access token is required")
	}

	s.gw.SetSession(req.AccessToken)

	snap, err := s.loadInitial(ctx)
	if err != nil {
		s.gw.ClearSession()
		return err
	}

	if s.onUser != nil {
		s.onUser(req.UserID)
	}
	s.store.Replace(snap)
	s.logger.Infow("session installed, initial data loaded",
		"spaces", len(snap.Spaces), "conversations", len(snap.Conversations))
	return nil
}

// Clear removes the session and resets the snapshot.
func (s *SessionService) Clear(ctx context.Context) {
	s.gw.ClearSession()
	if s.onUser != nil {
		s.onUser("")
	}
	s.store.Replace(model.Snapshot{
		Spaces:        []model.Space{},
		Conversations: []model.Conversation{},
		Messages:      []model.Message{},
	})
}

func (s *SessionService) loadInitial(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot

	spaces, err := s.gw.FetchSpaces(ctx)
	if err != nil {
		return snap, err
	}
	active, err := s.gw.FetchActiveSpace(ctx)
	if err != nil {
		return snap, err
	}

	snap.Spaces = spaces
	snap.ActiveSpace = active
	snap.Conversations = []model.Conversation{}
	snap.Messages = []model.Message{}
	snap.InitialDataLoaded = true

	if active == nil {
		return snap, nil
	}

	convs, err := s.gw.FetchConversations(ctx, active.ID)
	if err != nil {
		return snap, err
	}
	snap.Conversations = convs
	if len(convs) > 0 {
		first := convs[0]
		snap.ActiveConversation = &first
		msgs, err := s.gw.FetchMessages(ctx, first.ID)
		if err != nil {
			return snap, err
		}
		if msgs == nil {
			msgs = []model.Message{}
		}
		snap.Messages = msgs
	}
	return snap, nil
}
