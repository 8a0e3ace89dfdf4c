package gateway

import (
	"context"
	"net/http"

	"github.com/thevinciapp/vinci-hub/internal/model"
)

// FetchConversations retrieves a space's conversations, most recently
// updated first.
func (c *Client) FetchConversations(ctx context.Context, spaceID string) ([]model.Conversation, error) {
	var conversations []model.Conversation
	path := "/api/spaces/" + spaceID + "/conversations"
	if err := c.do(ctx, "fetch_conversations", http.MethodGet, path, nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// CreateConversation creates a conversation in a space.
func (c *Client) CreateConversation(ctx context.Context, spaceID, title string) (*model.Conversation, error) {
	body := map[string]string{"title": title}
	var conv model.Conversation
	path := "/api/spaces/" + spaceID + "/conversations"
	if err := c.do(ctx, "create_conversation", http.MethodPost, path, body, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// UpdateConversation retitles a conversation.
func (c *Client) UpdateConversation(ctx context.Context, spaceID, conversationID, title string) (*model.Conversation, error) {
	body := map[string]string{"title": title}
	var conv model.Conversation
	path := "/api/spaces/" + spaceID + "/conversations/" + conversationID
	if err := c.do(ctx, "update_conversation", http.MethodPatch, path, body, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// DeleteConversation soft-deletes a conversation.
func (c *Client) DeleteConversation(ctx context.Context, spaceID, conversationID string) error {
	path := "/api/spaces/" + spaceID + "/conversations/" + conversationID
	return c.do(ctx, "delete_conversation", http.MethodDelete, path, nil, nil)
}

// SetActiveConversation marks a conversation active for the current user.
func (c *Client) SetActiveConversation(ctx context.Context, conversationID, spaceID string) error {
	body := map[string]string{"conversation_id": conversationID, "space_id": spaceID}
	return c.do(ctx, "set_active_conversation", http.MethodPost, "/api/active-conversation", body, nil)
}
