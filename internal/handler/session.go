package handler

import (
	"net/http"

	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/service"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
)

// SessionHandler propagates backend sessions into the hub.
type SessionHandler struct {
	service *service.SessionService
	logger  *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(svc *service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{service: svc, logger: log}
}

// Set handles POST /api/v1/session
func (h *SessionHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req model.SetSessionRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}

	err := h.service.Set(r.Context(), &req)
	respond(w, nil, err)
}

// Clear handles DELETE /api/v1/session
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context())
	respond(w, nil, nil)
}
