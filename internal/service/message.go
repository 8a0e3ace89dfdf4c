package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thevinciapp/vinci-hub/internal/llm"
	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/state"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
	"github.com/thevinciapp/vinci-hub/pkg/metrics"
)

// MessageService implements the message sync operations. When a provider
// client is configured for the active space, Send also produces the
// assistant reply hub-side; otherwise the backend is assumed to handle it.
type MessageService struct {
	gw        Gateway
	store     *state.Store
	providers map[string]llm.Client
	logger    *logger.Logger
}

// NewMessageService creates a new message service. providers may be nil.
func NewMessageService(gw Gateway, store *state.Store, providers map[string]llm.Client, log *logger.Logger) *MessageService {
	return &MessageService{gw: gw, store: store, providers: providers, logger: log}
}

// Fetch returns the message list for a conversation. When the requested
// conversation is the active one, the cached copy is returned without a
// remote call. Fetching a non-active conversation never mutates the store.
func (s *MessageService) Fetch(ctx context.Context, conversationID string) ([]model.Message, error) {
	if conversationID == "" {
		return nil, validationf("conversation id is required")
	}

	snap := s.store.Snapshot()
	if snap.ActiveConversation != nil && snap.ActiveConversation.ID == conversationID {
		return snap.Messages, nil
	}

	return s.gw.FetchMessages(ctx, conversationID)
}

// Add ingests an already-materialized message into the active conversation.
// The append is idempotent: a duplicate id is suppressed and still reported
// as success. Messages for a non-active conversation are dropped, keeping
// the store scoped to the active conversation only.
func (s *MessageService) Add(ctx context.Context, msg *model.Message) error {
	if msg == nil || msg.ID == "" || msg.ConversationID == "" {
		return validationf("message id and conversation id are required")
	}

	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		if next.ActiveConversation == nil || next.ActiveConversation.ID != msg.ConversationID {
			s.logger.Debugw("message for non-active conversation dropped",
				"message_id", msg.ID, "conversation_id", msg.ConversationID)
			return prev
		}
		for _, existing := range next.Messages {
			if existing.ID == msg.ID {
				return prev
			}
		}
		next.Messages = append(next.Messages, *msg)
		return next
	})
	return nil
}

// Send posts a user message, optionally produces the assistant reply, then
// unconditionally re-fetches the full message list. The refetched list is
// committed only if the conversation is still the active one, which also
// discards the result when the user navigated away mid-request.
func (s *MessageService) Send(ctx context.Context, req *model.SendMessageRequest) (*model.Message, error) {
	if req == nil || req.ConversationID == "" {
		return nil, validationf("conversation id is required")
	}
	if req.Content == "" {
		return nil, validationf("message content is required")
	}

	userMsg, err := s.gw.SendChatMessage(ctx, req.ConversationID, req.Content)
	if err != nil {
		return nil, err
	}

	s.completeAssistantReply(ctx, req.ConversationID, userMsg)

	if err := s.refreshMessages(ctx, req.ConversationID); err != nil {
		return nil, err
	}
	return userMsg, nil
}

// Update patches a message's content remotely, then re-fetches the list.
func (s *MessageService) Update(ctx context.Context, conversationID, messageID, content string) (*model.Message, error) {
	if conversationID == "" || messageID == "" {
		return nil, validationf("conversation id and message id are required")
	}
	if content == "" {
		return nil, validationf("message content is required")
	}

	updated, err := s.gw.UpdateMessage(ctx, conversationID, messageID, content)
	if err != nil {
		return nil, err
	}

	if err := s.refreshMessages(ctx, conversationID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a message remotely, then re-fetches the list.
func (s *MessageService) Delete(ctx context.Context, conversationID, messageID string) error {
	if conversationID == "" || messageID == "" {
		return validationf("conversation id and message id are required")
	}

	if err := s.gw.DeleteMessage(ctx, conversationID, messageID); err != nil {
		return err
	}

	return s.refreshMessages(ctx, conversationID)
}

// Search runs the backend's ranked full-text search.
func (s *MessageService) Search(ctx context.Context, req *model.SearchRequest) ([]model.SearchResult, error) {
	if req == nil || req.Query == "" {
		return nil, validationf("search query is required")
	}
	return s.gw.Search(ctx, req)
}

// refreshMessages re-fetches a conversation's messages and commits them only
// if the conversation is still active at commit time.
func (s *MessageService) refreshMessages(ctx context.Context, conversationID string) error {
	msgs, err := s.gw.FetchMessages(ctx, conversationID)
	if err != nil {
		return err
	}

	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		if next.ActiveConversation == nil || next.ActiveConversation.ID != conversationID {
			return prev
		}
		next.Messages = msgs
		if next.Messages == nil {
			next.Messages = []model.Message{}
		}
		return next
	})
	return nil
}

// completeAssistantReply runs a hub-side completion over the loaded history
// and persists the reply. Failures are logged, never fatal: the user message
// is already sent and the refetch will surface whatever the backend has.
func (s *MessageService) completeAssistantReply(ctx context.Context, conversationID string, userMsg *model.Message) {
	snap := s.store.Snapshot()
	if snap.ActiveSpace == nil {
		return
	}
	if snap.ActiveConversation == nil || snap.ActiveConversation.ID != conversationID {
		return
	}
	client, ok := s.providers[snap.ActiveSpace.Provider]
	if !ok || client == nil {
		return
	}

	history := make([]llm.ChatMessage, 0, len(snap.Messages)+1)
	for _, m := range snap.Messages {
		if m.IsDeleted {
			continue
		}
		history = append(history, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	if userMsg != nil {
		history = append(history, llm.ChatMessage{Role: string(model.RoleUser), Content: userMsg.Content})
	}

	start := time.Now()
	resp, err := client.Complete(ctx, &llm.CompletionRequest{
		Model:    snap.ActiveSpace.Model,
		Messages: history,
	})
	if err != nil {
		metrics.RecordCompletion(client.Name(), "error", time.Since(start).Seconds(), 0, 0)
		s.logger.Warnw("assistant completion failed", "conversation_id", conversationID, "error", err)
		return
	}
	metrics.RecordCompletion(client.Name(), "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	now := time.Now()
	assistant := &model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		UserID:         snap.ActiveSpace.UserID,
		Role:           model.RoleAssistant,
		Content:        resp.Content,
		ModelUsed:      resp.Model,
		Provider:       client.Name(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.gw.CreateMessage(ctx, conversationID, assistant); err != nil {
		s.logger.Warnw("failed to persist assistant reply", "conversation_id", conversationID, "error", err)
	}
}
