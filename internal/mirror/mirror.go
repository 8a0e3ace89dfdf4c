// Package mirror is the window-side consumer of the hub's state contract:
// one initial fetch, then a persistent subscription whose every event
// replaces the local copy wholesale. No merging ever happens here; the last
// full snapshot wins, so a window can never diverge from the hub.
package mirror

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/thevinciapp/vinci-hub/internal/model"
)

// UpdateFunc observes each replaced snapshot.
type UpdateFunc func(model.SnapshotPayload)

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// Mirror maintains a read-only copy of the hub snapshot.
type Mirror struct {
	baseURL *url.URL
	token   string
	http    *http.Client

	reconnectDelay time.Duration

	mu       sync.RWMutex
	snapshot model.SnapshotPayload
	loaded   bool
	onUpdate UpdateFunc
}

// New builds a Mirror for the given hub base URL and session token.
func New(baseURL, token string) (*Mirror, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid hub URL %q: %w", baseURL, err)
	}
	return &Mirror{
		baseURL:        base,
		token:          token,
		reconnectDelay: reconnectBaseDelay,
		// No overall timeout: the subscription is a long-lived stream.
		http: &http.Client{},
	}, nil
}

// OnUpdate registers a callback invoked after every snapshot replacement.
func (m *Mirror) OnUpdate(fn UpdateFunc) {
	m.mu.Lock()
	m.onUpdate = fn
	m.mu.Unlock()
}

// Current returns the latest snapshot and whether one has been received.
func (m *Mirror) Current() (model.SnapshotPayload, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot, m.loaded
}

// Run fetches the current state once and then consumes the broadcast
// subscription until ctx is done. Each received snapshot replaces the local
// copy wholesale. A dropped subscription is re-established with backoff,
// re-fetching the snapshot first so broadcasts missed in the gap cannot
// leave the mirror behind.
func (m *Mirror) Run(ctx context.Context) error {
	if err := m.fetchState(ctx); err != nil {
		return err
	}

	delay := m.reconnectDelay
	for {
		// Returns when the stream drops; any error is retried below.
		_ = m.subscribe(ctx)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		if err := m.fetchState(ctx); err != nil {
			if delay < reconnectMaxDelay {
				delay *= 2
			}
			continue
		}
		delay = m.reconnectDelay
	}
}

func (m *Mirror) fetchState(ctx context.Context) error {
	req, err := m.newRequest(ctx, "/api/v1/state")
	if err != nil {
		return err
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hub returned %d for state fetch", resp.StatusCode)
	}

	var env model.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("malformed state response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("state fetch failed: %s", env.Error)
	}

	var payload model.SnapshotPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return fmt.Errorf("malformed state payload: %w", err)
	}

	m.replace(payload)
	return nil
}

func (m *Mirror) subscribe(ctx context.Context) error {
	req, err := m.newRequest(ctx, "/api/v1/state/subscribe")
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hub returned %d for subscription", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if event == "state" && data != "" {
				if err := m.applyEvent(data); err != nil {
					return err
				}
			}
			event, data = "", ""
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}

func (m *Mirror) applyEvent(data string) error {
	var env model.Envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return fmt.Errorf("malformed broadcast event: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("broadcast carried failure: %s", env.Error)
	}

	var payload model.SnapshotPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return fmt.Errorf("malformed broadcast payload: %w", err)
	}

	m.replace(payload)
	return nil
}

func (m *Mirror) replace(payload model.SnapshotPayload) {
	m.mu.Lock()
	m.snapshot = payload
	m.loaded = true
	fn := m.onUpdate
	m.mu.Unlock()

	if fn != nil {
		fn(payload)
	}
}

func (m *Mirror) newRequest(ctx context.Context, path string) (*http.Request, error) {
	u := *m.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}
	return req, nil
}
