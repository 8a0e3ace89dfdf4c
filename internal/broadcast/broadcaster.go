// Package broadcast fans committed snapshots out to every attached window.
package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/state"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
	"github.com/thevinciapp/vinci-hub/pkg/metrics"
)

// Journal is the optional durable sink for sanitized snapshots.
type Journal interface {
	PublishSnapshot(ctx context.Context, payload model.SnapshotPayload) error
}

// window is one attached client. Its channel is buffered; a window that
// cannot keep up skips intermediate snapshots, which is safe because every
// payload is a full replacement.
type window struct {
	id string
	ch chan model.SnapshotPayload
}

// Broadcaster delivers each committed snapshot to all attached windows.
// Delivery is fire-and-forget; a dead or slow window never blocks the rest.
type Broadcaster struct {
	mu      sync.Mutex
	windows map[string]*window

	journal Journal
	logger  *logger.Logger
}

// New creates a broadcaster. journal may be nil.
func New(journal Journal, log *logger.Logger) *Broadcaster {
	return &Broadcaster{
		windows: make(map[string]*window),
		journal: journal,
		logger:  log,
	}
}

// Attach registers a window and returns its snapshot channel plus a detach
// function. Detaching closes the channel.
func (b *Broadcaster) Attach(id string) (<-chan model.SnapshotPayload, func()) {
	w := &window{id: id, ch: make(chan model.SnapshotPayload, 16)}

	b.mu.Lock()
	b.windows[id] = w
	b.mu.Unlock()
	metrics.WindowsAttached.Inc()

	var once sync.Once
	detach := func() {
		once.Do(func() {
			// Removal and close happen under the same lock Publish holds
			// while sending, so a detached window can never be sent to.
			b.mu.Lock()
			if existing, ok := b.windows[id]; ok && existing == w {
				delete(b.windows, id)
			}
			close(w.ch)
			b.mu.Unlock()
			metrics.WindowsAttached.Dec()
		})
	}
	return w.ch, detach
}

// Count returns the number of attached windows.
func (b *Broadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.windows)
}

// Publish sanitizes the snapshot once and sends it to every window attached
// at publish time. It is wired as a store subscriber, so each commit yields
// exactly one broadcast.
func (b *Broadcaster) Publish(snap model.Snapshot) {
	payload := state.Sanitize(snap)

	b.mu.Lock()
	for _, w := range b.windows {
		select {
		case w.ch <- payload:
		default:
			metrics.BroadcastDrops.Inc()
			b.logger.Warnw("window not keeping up, snapshot skipped", "window_id", w.id)
		}
	}
	b.mu.Unlock()
	metrics.BroadcastsTotal.Inc()

	if b.journal != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := b.journal.PublishSnapshot(ctx, payload); err != nil {
			b.logger.Warnw("failed to journal snapshot", "error", err)
		}
	}
}
