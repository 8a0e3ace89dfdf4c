package gateway

import (
	"context"
	"net/http"

	"github.com/thevinciapp/vinci-hub/internal/model"
)

// FetchMessages retrieves the full message list for a conversation.
func (c *Client) FetchMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var messages []model.Message
	path := "/api/conversations/" + conversationID + "/messages"
	if err := c.do(ctx, "fetch_messages", http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendChatMessage posts a user message. The backend owns whatever happens
// next (persisting, triggering a reply); the caller re-fetches the list.
func (c *Client) SendChatMessage(ctx context.Context, conversationID, content string) (*model.Message, error) {
	body := map[string]string{"content": content}
	var msg model.Message
	path := "/api/conversations/" + conversationID + "/messages"
	if err := c.do(ctx, "send_chat_message", http.MethodPost, path, body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreateMessage persists an already-materialized message, such as an
// assistant reply produced by the hub's own completion path.
func (c *Client) CreateMessage(ctx context.Context, conversationID string, msg *model.Message) (*model.Message, error) {
	var created model.Message
	path := "/api/conversations/" + conversationID + "/messages"
	if err := c.do(ctx, "create_message", http.MethodPost, path, msg, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMessage patches a message's content.
func (c *Client) UpdateMessage(ctx context.Context, conversationID, messageID, content string) (*model.Message, error) {
	body := map[string]string{"content": content}
	var msg model.Message
	path := "/api/conversations/" + conversationID + "/messages/" + messageID
	if err := c.do(ctx, "update_message", http.MethodPatch, path, body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteMessage soft-deletes a message.
func (c *Client) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	path := "/api/conversations/" + conversationID + "/messages/" + messageID
	return c.do(ctx, "delete_message", http.MethodDelete, path, nil, nil)
}

// Search runs the backend's ranked full-text search RPC.
func (c *Client) Search(ctx context.Context, req *model.SearchRequest) ([]model.SearchResult, error) {
	var results []model.SearchResult
	if err := c.do(ctx, "search", http.MethodPost, "/api/search", req, &results); err != nil {
		return nil, err
	}
	return results, nil
}
