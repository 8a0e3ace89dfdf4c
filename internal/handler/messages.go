package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thevinciapp/vinci-hub/internal/middleware"
	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/service"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
)

// MessageHandler handles message sync endpoints.
type MessageHandler struct {
	service *service.MessageService
	logger  *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc *service.MessageService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{service: svc, logger: log}
}

// List handles GET /api/v1/conversations/{id}/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.Fetch(r.Context(), chi.URLParam(r, "id"))
	respond(w, msgs, err)
}

// Send handles POST /api/v1/conversations/{id}/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}
	req.ConversationID = chi.URLParam(r, "id")
	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		respond(w, nil, &service.ValidationError{Msg: err.Error()})
		return
	}

	msg, err := h.service.Send(r.Context(), &req)
	respond(w, msg, err)
}

// Add handles POST /api/v1/state/messages. It ingests an already-created
// message into the active conversation; duplicates are suppressed.
func (h *MessageHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.AddMessageRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}

	err := h.service.Add(r.Context(), &req.Message)
	respond(w, nil, err)
}

// Update handles PATCH /api/v1/conversations/{id}/messages/{messageID}
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateMessageRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}
	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		respond(w, nil, &service.ValidationError{Msg: err.Error()})
		return
	}

	msg, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "messageID"), req.Content)
	respond(w, msg, err)
}

// Delete handles DELETE /api/v1/conversations/{id}/messages/{messageID}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	if err := middleware.ValidateEntityID(messageID); err != nil {
		respond(w, nil, &service.ValidationError{Msg: err.Error()})
		return
	}

	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), messageID)
	respond(w, nil, err)
}

// Search handles POST /api/v1/search
func (h *MessageHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}

	results, err := h.service.Search(r.Context(), &req)
	respond(w, results, err)
}
