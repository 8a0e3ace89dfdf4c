package model

import (
	"time"
)

// Conversation is an ordered thread of messages within a space.
type Conversation struct {
	ID        string    `json:"id"`
	SpaceID   string    `json:"space_id"`
	Title     string    `json:"title"`
	IsDeleted bool      `json:"is_deleted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateConversationRequest is the request to create a new conversation.
type CreateConversationRequest struct {
	SpaceID string `json:"space_id"`
	Title   string `json:"title"`
}

// UpdateConversationRequest is the request to retitle a conversation.
type UpdateConversationRequest struct {
	SpaceID string `json:"space_id"`
	Title   string `json:"title"`
}

// SetActiveConversationRequest activates a conversation already present in
// the loaded conversation list.
type SetActiveConversationRequest struct {
	ConversationID string `json:"conversation_id"`
	SpaceID        string `json:"space_id"`
}
