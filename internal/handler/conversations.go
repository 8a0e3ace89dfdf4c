package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thevinciapp/vinci-hub/internal/middleware"
	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/service"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
)

// ConversationHandler handles conversation sync endpoints.
type ConversationHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{service: svc, logger: log}
}

// Create handles POST /api/v1/spaces/{spaceID}/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateConversationRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}
	req.SpaceID = chi.URLParam(r, "spaceID")
	if err := middleware.ValidateTitle(req.Title); err != nil {
		respond(w, nil, &service.ValidationError{Msg: err.Error()})
		return
	}

	conv, err := h.service.Create(r.Context(), &req)
	respond(w, conv, err)
}

// Update handles PATCH /api/v1/spaces/{spaceID}/conversations/{id}
func (h *ConversationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateConversationRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}
	req.SpaceID = chi.URLParam(r, "spaceID")
	if err := middleware.ValidateTitle(req.Title); err != nil {
		respond(w, nil, &service.ValidationError{Msg: err.Error()})
		return
	}

	conv, err := h.service.Update(r.Context(), &req, chi.URLParam(r, "id"))
	respond(w, conv, err)
}

// Delete handles DELETE /api/v1/spaces/{spaceID}/conversations/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "spaceID"), chi.URLParam(r, "id"))
	respond(w, nil, err)
}

// Activate handles POST /api/v1/conversations/{id}/activate
func (h *ConversationHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req model.SetActiveConversationRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}
	req.ConversationID = chi.URLParam(r, "id")

	conv, err := h.service.SetActive(r.Context(), &req)
	respond(w, conv, err)
}
