// Package model defines data structures shared by the hub, the gateway, and
// attached window clients.
package model

import (
	"time"
)

// Space is a top-level workspace scoping a set of conversations and an AI
// provider/model selection.
type Space struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Model          string         `json:"model"`
	Provider       string         `json:"provider"`
	ChatMode       string         `json:"chat_mode,omitempty"`
	ChatModeConfig map[string]any `json:"chat_mode_config,omitempty"`
	Color          string         `json:"color,omitempty"`
	UserID         string         `json:"user_id"`
	IsDeleted      bool           `json:"is_deleted,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// CreateSpaceRequest is the request to create a new space.
type CreateSpaceRequest struct {
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Model          string         `json:"model,omitempty"`
	Provider       string         `json:"provider,omitempty"`
	ChatMode       string         `json:"chat_mode,omitempty"`
	ChatModeConfig map[string]any `json:"chat_mode_config,omitempty"`
	Color          string         `json:"color,omitempty"`
}

// UpdateSpaceRequest is the request to update mutable space fields. Empty
// fields are left unchanged.
type UpdateSpaceRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ChatMode    string `json:"chat_mode,omitempty"`
}

// UpdateSpaceModelRequest selects a new provider/model pair for a space.
type UpdateSpaceModelRequest struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// SpaceView is the backend's full post-create view of a space: the refreshed
// space list, the newly active space, and its default conversation.
type SpaceView struct {
	Spaces        []Space        `json:"spaces"`
	ActiveSpace   *Space         `json:"active_space"`
	Conversations []Conversation `json:"conversations"`
	Messages      []Message      `json:"messages"`
}
