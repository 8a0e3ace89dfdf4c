package service

import (
	"context"

	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/state"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
)

// ConversationService implements the conversation sync operations.
type ConversationService struct {
	gw     Gateway
	store  *state.Store
	logger *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(gw Gateway, store *state.Store, log *logger.Logger) *ConversationService {
	return &ConversationService{gw: gw, store: store, logger: log}
}

// Create creates a conversation and activates it with an empty message list.
// The conversation list stays newest-first by construction: new entries are
// prepended, never re-sorted. A duplicate id is logged and the existing
// entry is activated instead.
func (s *ConversationService) Create(ctx context.Context, req *model.CreateConversationRequest) (*model.Conversation, error) {
	if req == nil || req.SpaceID == "" {
		return nil, validationf("space id is required")
	}
	title := req.Title
	if title == "" {
		title = "New Conversation"
	}

	conv, err := s.gw.CreateConversation(ctx, req.SpaceID, title)
	if err != nil {
		return nil, err
	}

	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		if next.ActiveSpace == nil || next.ActiveSpace.ID != conv.SpaceID {
			// The active space moved on while the create was in flight;
			// this conversation belongs to a space we are no longer showing.
			s.logger.Warnw("created conversation for non-active space, skipping activation",
				"conversation_id", conv.ID, "space_id", conv.SpaceID)
			return prev
		}
		if idx := findConversation(next.Conversations, conv.ID); idx >= 0 {
			s.logger.Warnw("conversation already present, activating existing entry",
				"conversation_id", conv.ID)
			existing := next.Conversations[idx]
			next.ActiveConversation = &existing
			next.Messages = []model.Message{}
			return next
		}
		next.Conversations = append([]model.Conversation{*conv}, next.Conversations...)
		active := *conv
		next.ActiveConversation = &active
		next.Messages = []model.Message{}
		return next
	})
	return conv, nil
}

// Update retitles a conversation.
func (s *ConversationService) Update(ctx context.Context, req *model.UpdateConversationRequest, conversationID string) (*model.Conversation, error) {
	if req == nil || req.SpaceID == "" || conversationID == "" {
		return nil, validationf("space id and conversation id are required")
	}
	if req.Title == "" {
		return nil, validationf("title is required")
	}

	updated, err := s.gw.UpdateConversation(ctx, req.SpaceID, conversationID, req.Title)
	if err != nil {
		return nil, err
	}

	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		idx := findConversation(next.Conversations, conversationID)
		if idx < 0 {
			s.logger.Warnw("update for conversation not in store, skipping", "conversation_id", conversationID)
			return prev
		}
		next.Conversations[idx] = *updated
		if next.ActiveConversation != nil && next.ActiveConversation.ID == conversationID {
			c := *updated
			next.ActiveConversation = &c
		}
		return next
	})
	return updated, nil
}

// Delete removes a conversation. When the deleted conversation was active,
// the first remaining one is promoted and its messages fetched; with none
// remaining the active conversation and messages are cleared.
func (s *ConversationService) Delete(ctx context.Context, spaceID, conversationID string) error {
	if spaceID == "" || conversationID == "" {
		return validationf("space id and conversation id are required")
	}

	if err := s.gw.DeleteConversation(ctx, spaceID, conversationID); err != nil {
		return err
	}

	// Prefetch messages for the expected promotion target so the commit
	// itself stays synchronous.
	snap := s.store.Snapshot()
	var promoted *model.Conversation
	var promotedMsgs []model.Message
	if snap.ActiveConversation != nil && snap.ActiveConversation.ID == conversationID {
		remaining := removeConversation(snap.Conversations, conversationID)
		if len(remaining) > 0 {
			promoted = &remaining[0]
			msgs, err := s.gw.FetchMessages(ctx, promoted.ID)
			if err != nil {
				s.logger.Warnw("failed to load messages for promoted conversation",
					"conversation_id", promoted.ID, "error", err)
			} else {
				promotedMsgs = msgs
			}
		}
	}

	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		next.Conversations = removeConversation(next.Conversations, conversationID)

		stillActive := next.ActiveConversation != nil && next.ActiveConversation.ID == conversationID
		if !stillActive {
			return next
		}

		if len(next.Conversations) == 0 {
			next.ActiveConversation = nil
			next.Messages = []model.Message{}
			return next
		}

		first := next.Conversations[0]
		next.ActiveConversation = &first
		if promoted != nil && promoted.ID == first.ID && promotedMsgs != nil {
			next.Messages = promotedMsgs
		} else {
			next.Messages = []model.Message{}
		}
		return next
	})
	return nil
}

// SetActive activates a conversation that must already be present in the
// loaded conversation list. An unknown id means the caller's view is stale
// and yields a NotFoundError rather than a re-fetch.
func (s *ConversationService) SetActive(ctx context.Context, req *model.SetActiveConversationRequest) (*model.Conversation, error) {
	if req == nil || req.ConversationID == "" {
		return nil, validationf("conversation id is required")
	}

	snap := s.store.Snapshot()
	idx := findConversation(snap.Conversations, req.ConversationID)
	if idx < 0 {
		return nil, &NotFoundError{Msg: "Conversation not found in current list"}
	}
	conv := snap.Conversations[idx]

	// Persisting the active pointer remotely is best-effort; the local
	// switch is what every window converges on.
	if err := s.gw.SetActiveConversation(ctx, conv.ID, conv.SpaceID); err != nil {
		s.logger.Warnw("failed to persist active conversation", "conversation_id", conv.ID, "error", err)
	}

	msgs, err := s.gw.FetchMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	var staleAtCommit bool
	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		cidx := findConversation(next.Conversations, req.ConversationID)
		if cidx < 0 {
			staleAtCommit = true
			return prev
		}
		current := next.Conversations[cidx]
		next.ActiveConversation = &current
		next.Messages = msgs
		if next.Messages == nil {
			next.Messages = []model.Message{}
		}
		return next
	})
	if staleAtCommit {
		return nil, &NotFoundError{Msg: "Conversation not found in current list"}
	}
	return &conv, nil
}

func findConversation(conversations []model.Conversation, id string) int {
	for i, c := range conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func removeConversation(conversations []model.Conversation, id string) []model.Conversation {
	out := make([]model.Conversation, 0, len(conversations))
	for _, c := range conversations {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
