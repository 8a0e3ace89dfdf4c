package gateway

import (
	"context"
	"net/http"

	"github.com/thevinciapp/vinci-hub/internal/model"
)

// FetchSpaces retrieves all non-deleted spaces for the current user.
func (c *Client) FetchSpaces(ctx context.Context) ([]model.Space, error) {
	var spaces []model.Space
	if err := c.do(ctx, "fetch_spaces", http.MethodGet, "/api/spaces", nil, &spaces); err != nil {
		return nil, err
	}
	return spaces, nil
}

// FetchSpace retrieves a single space by id.
func (c *Client) FetchSpace(ctx context.Context, spaceID string) (*model.Space, error) {
	var space model.Space
	if err := c.do(ctx, "fetch_space", http.MethodGet, "/api/spaces/"+spaceID, nil, &space); err != nil {
		return nil, err
	}
	return &space, nil
}

// FetchActiveSpace retrieves the user's active space, or nil when none is
// set.
func (c *Client) FetchActiveSpace(ctx context.Context) (*model.Space, error) {
	var space model.Space
	if err := c.do(ctx, "fetch_active_space", http.MethodGet, "/api/active-space", nil, &space); err != nil {
		return nil, err
	}
	if space.ID == "" {
		return nil, nil
	}
	return &space, nil
}

// CreateSpace creates a space and returns the backend's full post-create
// view, including the refreshed space list and the default conversation.
func (c *Client) CreateSpace(ctx context.Context, req *model.CreateSpaceRequest) (*model.SpaceView, error) {
	var view model.SpaceView
	if err := c.do(ctx, "create_space", http.MethodPost, "/api/spaces", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// UpdateSpace applies a partial update to a space.
func (c *Client) UpdateSpace(ctx context.Context, spaceID string, req *model.UpdateSpaceRequest) (*model.Space, error) {
	var space model.Space
	if err := c.do(ctx, "update_space", http.MethodPatch, "/api/spaces/"+spaceID, req, &space); err != nil {
		return nil, err
	}
	return &space, nil
}

// UpdateSpaceModel changes the provider/model selection for a space.
func (c *Client) UpdateSpaceModel(ctx context.Context, spaceID, modelID, provider string) (*model.Space, error) {
	req := model.UpdateSpaceModelRequest{Model: modelID, Provider: provider}
	var space model.Space
	if err := c.do(ctx, "update_space_model", http.MethodPatch, "/api/spaces/"+spaceID+"/model", &req, &space); err != nil {
		return nil, err
	}
	return &space, nil
}

// DeleteSpace soft-deletes a space.
func (c *Client) DeleteSpace(ctx context.Context, spaceID string) error {
	return c.do(ctx, "delete_space", http.MethodDelete, "/api/spaces/"+spaceID, nil, nil)
}

// SetActiveSpace marks a space active for the current user.
func (c *Client) SetActiveSpace(ctx context.Context, spaceID string) error {
	body := map[string]string{"space_id": spaceID}
	return c.do(ctx, "set_active_space", http.MethodPost, "/api/active-space", body, nil)
}
