package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/thevinciapp/vinci-hub/internal/model"
)

const (
	// StreamName is the name of the snapshot journal stream.
	StreamName = "VINCI_SYNC"

	// SubjectPrefix is the prefix for all sync subjects.
	SubjectPrefix = "sync"
)

// Journal publishes committed snapshots to JetStream so late-attaching
// processes can replay the latest state without hitting the hub.
type Journal struct {
	client *Client

	mu     sync.RWMutex
	userID string
}

// NewJournal creates a new snapshot journal.
func NewJournal(client *Client) *Journal {
	return &Journal{client: client, userID: "local"}
}

// SetUser scopes subsequent snapshot subjects to a user id.
func (j *Journal) SetUser(userID string) {
	if userID == "" {
		userID = "local"
	}
	j.mu.Lock()
	j.userID = userID
	j.mu.Unlock()
}

// EnsureStream ensures the sync stream exists with proper configuration.
// Only the most recent snapshot per subject is retained.
func (j *Journal) EnsureStream(ctx context.Context) error {
	js := j.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:              StreamName,
		Subjects:          []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:         jetstream.LimitsPolicy,
		MaxAge:            7 * 24 * time.Hour,
		MaxMsgsPerSubject: 1,
		Storage:           jetstream.FileStorage,
		Replicas:          1,
		Description:       "Latest synchronized snapshot per user",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// StateSubject returns the snapshot subject for a user.
func StateSubject(userID string) string {
	return fmt.Sprintf("%s.%s.state", SubjectPrefix, userID)
}

// PublishSnapshot publishes a sanitized snapshot to the journal.
func (j *Journal) PublishSnapshot(ctx context.Context, payload model.SnapshotPayload) error {
	j.mu.RLock()
	userID := j.userID
	j.mu.RUnlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if _, err := j.client.JetStream().Publish(ctx, StateSubject(userID), data); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot fetches the most recently journaled snapshot for a user.
func (j *Journal) LatestSnapshot(ctx context.Context, userID string) (*model.SnapshotPayload, error) {
	if userID == "" {
		userID = "local"
	}

	stream, err := j.client.JetStream().Stream(ctx, StreamName)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	raw, err := stream.GetLastMsgForSubject(ctx, StateSubject(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var payload model.SnapshotPayload
	if err := json.Unmarshal(raw.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &payload, nil
}
