package state

import (
	"time"

	"github.com/thevinciapp/vinci-hub/internal/model"
)

// FromPayload rebuilds a snapshot from its wire form. It is the inverse of
// Sanitize up to timestamp precision and is used to replay a journaled
// snapshot into a fresh store.
func FromPayload(payload model.SnapshotPayload) model.Snapshot {
	snap := model.Snapshot{
		Spaces:            make([]model.Space, 0, len(payload.Spaces)),
		Conversations:     make([]model.Conversation, 0, len(payload.Conversations)),
		Messages:          make([]model.Message, 0, len(payload.Messages)),
		InitialDataLoaded: payload.InitialDataLoaded,
	}

	for _, sp := range payload.Spaces {
		snap.Spaces = append(snap.Spaces, hydrateSpace(sp))
	}
	if payload.ActiveSpace != nil {
		sp := hydrateSpace(*payload.ActiveSpace)
		snap.ActiveSpace = &sp
	}
	for _, c := range payload.Conversations {
		snap.Conversations = append(snap.Conversations, hydrateConversation(c))
	}
	if payload.ActiveConversation != nil {
		c := hydrateConversation(*payload.ActiveConversation)
		snap.ActiveConversation = &c
	}
	for _, m := range payload.Messages {
		snap.Messages = append(snap.Messages, hydrateMessage(m))
	}

	return snap
}

func hydrateSpace(sp model.SpacePayload) model.Space {
	return model.Space{
		ID:             sp.ID,
		Name:           sp.Name,
		Description:    sp.Description,
		Model:          sp.Model,
		Provider:       sp.Provider,
		ChatMode:       sp.ChatMode,
		ChatModeConfig: sp.ChatModeConfig,
		Color:          sp.Color,
		UserID:         sp.UserID,
		IsDeleted:      sp.IsDeleted,
		CreatedAt:      hydrateTime(sp.CreatedAt),
		UpdatedAt:      hydrateTime(sp.UpdatedAt),
	}
}

func hydrateConversation(c model.ConversationPayload) model.Conversation {
	return model.Conversation{
		ID:        c.ID,
		SpaceID:   c.SpaceID,
		Title:     c.Title,
		IsDeleted: c.IsDeleted,
		CreatedAt: hydrateTime(c.CreatedAt),
		UpdatedAt: hydrateTime(c.UpdatedAt),
	}
}

func hydrateMessage(m model.MessagePayload) model.Message {
	msg := model.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		UserID:         m.UserID,
		Role:           model.Role(m.Role),
		Content:        m.Content,
		ModelUsed:      m.ModelUsed,
		Provider:       m.Provider,
		IsDeleted:      m.IsDeleted,
		CreatedAt:      hydrateTime(m.CreatedAt),
		UpdatedAt:      hydrateTime(m.UpdatedAt),
	}
	if m.Annotations != nil {
		msg.Annotations = append([]string{}, m.Annotations...)
	}
	return msg
}

func hydrateTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
