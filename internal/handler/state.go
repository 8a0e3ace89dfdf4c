package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/thevinciapp/vinci-hub/internal/broadcast"
	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/state"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
)

// StateHandler serves the current snapshot and the broadcast subscription.
type StateHandler struct {
	store       *state.Store
	broadcaster *broadcast.Broadcaster
	logger      *logger.Logger
}

// NewStateHandler creates a new state handler.
func NewStateHandler(store *state.Store, b *broadcast.Broadcaster, log *logger.Logger) *StateHandler {
	return &StateHandler{store: store, broadcaster: b, logger: log}
}

// Get handles GET /api/v1/state. Windows call this once on mount, then rely
// on the subscription for every later change.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	respond(w, state.Sanitize(h.store.Snapshot()), nil)
}

// Subscribe handles GET /api/v1/state/subscribe. Each attached window
// receives the current snapshot immediately and then every committed one as
// an SSE "state" event carrying the usual envelope.
func (h *StateHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respond(w, nil, fmt.Errorf("streaming not supported"))
		return
	}

	// The subscription is long-lived; the server's write timeout must not
	// apply to it.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debugw("could not clear write deadline", "error", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	windowID := uuid.New().String()
	updates, detach := h.broadcaster.Attach(windowID)
	defer detach()

	h.logger.Infow("window attached", "window_id", windowID)
	defer h.logger.Infow("window detached", "window_id", windowID)

	// Initial snapshot so the window converges before the first commit.
	if err := sendSSEEvent(w, flusher, "state", model.OK(state.Sanitize(h.store.Snapshot()))); err != nil {
		return
	}

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	done := r.Context().Done()
	for {
		select {
		case <-done:
			return
		case payload, open := <-updates:
			if !open {
				return
			}
			if err := sendSSEEvent(w, flusher, "state", model.OK(payload)); err != nil {
				return
			}
		case <-heartbeat.C:
			if err := sendSSEEvent(w, flusher, "heartbeat", map[string]string{
				"ts": time.Now().UTC().Format(time.RFC3339),
			}); err != nil {
				return
			}
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
