// Package gateway performs authenticated HTTP calls to the remote backend.
// It is the only layer that talks to the network; it never touches the hub
// store, so store updates stay atomic and observable in one place.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/pkg/metrics"
)

// API is the full gateway surface consumed by the sync services.
// Implemented by *Client; fakes implement it in tests.
type API interface {
	FetchSpaces(ctx context.Context) ([]model.Space, error)
	FetchSpace(ctx context.Context, spaceID string) (*model.Space, error)
	FetchActiveSpace(ctx context.Context) (*model.Space, error)
	CreateSpace(ctx context.Context, req *model.CreateSpaceRequest) (*model.SpaceView, error)
	UpdateSpace(ctx context.Context, spaceID string, req *model.UpdateSpaceRequest) (*model.Space, error)
	UpdateSpaceModel(ctx context.Context, spaceID, modelID, provider string) (*model.Space, error)
	DeleteSpace(ctx context.Context, spaceID string) error
	SetActiveSpace(ctx context.Context, spaceID string) error

	FetchConversations(ctx context.Context, spaceID string) ([]model.Conversation, error)
	CreateConversation(ctx context.Context, spaceID, title string) (*model.Conversation, error)
	UpdateConversation(ctx context.Context, spaceID, conversationID, title string) (*model.Conversation, error)
	DeleteConversation(ctx context.Context, spaceID, conversationID string) error
	SetActiveConversation(ctx context.Context, conversationID, spaceID string) error

	FetchMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	SendChatMessage(ctx context.Context, conversationID, content string) (*model.Message, error)
	CreateMessage(ctx context.Context, conversationID string, msg *model.Message) (*model.Message, error)
	UpdateMessage(ctx context.Context, conversationID, messageID, content string) (*model.Message, error)
	DeleteMessage(ctx context.Context, conversationID, messageID string) error

	Search(ctx context.Context, req *model.SearchRequest) ([]model.SearchResult, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// RemoteError carries the backend's failure message for a gateway call.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Client talks to the backend's REST surface.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	anonKey string

	mu          sync.RWMutex
	accessToken string
}

// NewClient builds a Client for the given backend base URL. anonKey is sent
// on every request; the per-user access token is installed later via
// SetSession.
func NewClient(baseURL, anonKey string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend URL %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		anonKey: anonKey,
	}, nil
}

// SetSession installs the user's access token for subsequent calls.
func (c *Client) SetSession(accessToken string) {
	c.mu.Lock()
	c.accessToken = accessToken
	c.mu.Unlock()
}

// ClearSession removes the installed access token.
func (c *Client) ClearSession() {
	c.SetSession("")
}

// HasSession reports whether an access token is installed.
func (c *Client) HasSession() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken != ""
}

// backendEnvelope is the backend's uniform response shape.
type backendEnvelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

// do performs one backend call. out, when non-nil, receives the decoded data
// field. Any non-success outcome yields a *RemoteError and leaves out
// untouched; callers never see partially valid objects.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	err := c.doRequest(ctx, method, path, body, out)
	metrics.RecordGatewayCall(op, err, time.Since(start).Seconds())
	if err != nil {
		if re, ok := err.(*RemoteError); ok {
			re.Op = op
			return re
		}
		return &RemoteError{Op: op, Message: err.Error()}
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env backendEnvelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return &RemoteError{StatusCode: resp.StatusCode, Message: "malformed backend response"}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || env.Status == "error" {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &RemoteError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &RemoteError{StatusCode: resp.StatusCode, Message: "malformed backend data"}
		}
	}
	return nil
}
