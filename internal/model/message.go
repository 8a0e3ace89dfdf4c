package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single entry in a conversation thread.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Annotations    []string  `json:"annotations,omitempty"`
	ModelUsed      string    `json:"model_used,omitempty"`
	Provider       string    `json:"provider,omitempty"`
	IsDeleted      bool      `json:"is_deleted,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SendMessageRequest is the request to send a new user message.
type SendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

// AddMessageRequest ingests an already-materialized message into the active
// conversation. Duplicate ids are suppressed.
type AddMessageRequest struct {
	Message Message `json:"message"`
}

// UpdateMessageRequest patches the content of an existing message.
type UpdateMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

// SearchRequest is the full-text search RPC input.
type SearchRequest struct {
	Query string `json:"query"`
	Scope string `json:"scope,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResult is one ranked row returned by the backend search RPC.
type SearchResult struct {
	ID             string  `json:"id"`
	ConversationID string  `json:"conversation_id"`
	SpaceID        string  `json:"space_id,omitempty"`
	Content        string  `json:"content"`
	Rank           float64 `json:"rank"`
}
