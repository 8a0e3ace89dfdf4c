package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thevinciapp/vinci-hub/internal/middleware"
	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/service"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
)

// SpaceHandler handles space sync endpoints.
type SpaceHandler struct {
	service *service.SpaceService
	logger  *logger.Logger
}

// NewSpaceHandler creates a new space handler.
func NewSpaceHandler(svc *service.SpaceService, log *logger.Logger) *SpaceHandler {
	return &SpaceHandler{service: svc, logger: log}
}

// Create handles POST /api/v1/spaces
func (h *SpaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSpaceRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}
	if err := middleware.ValidateSpaceName(req.Name); err != nil {
		respond(w, nil, &service.ValidationError{Msg: err.Error()})
		return
	}

	space, err := h.service.Create(r.Context(), &req)
	respond(w, space, err)
}

// Update handles PATCH /api/v1/spaces/{id}
func (h *SpaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.UpdateSpaceRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}
	if req.Name != "" {
		if err := middleware.ValidateSpaceName(req.Name); err != nil {
			respond(w, nil, &service.ValidationError{Msg: err.Error()})
			return
		}
	}

	space, err := h.service.Update(r.Context(), id, &req)
	respond(w, space, err)
}

// UpdateModel handles PATCH /api/v1/spaces/{id}/model
func (h *SpaceHandler) UpdateModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.UpdateSpaceModelRequest
	if err := decode(r, &req); err != nil {
		respond(w, nil, err)
		return
	}

	err := h.service.UpdateModel(r.Context(), id, req.Model, req.Provider)
	respond(w, nil, err)
}

// Activate handles POST /api/v1/spaces/{id}/activate
func (h *SpaceHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	space, err := h.service.SetActive(r.Context(), id)
	respond(w, space, err)
}

// Delete handles DELETE /api/v1/spaces/{id}
func (h *SpaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateEntityID(id); err != nil {
		respond(w, nil, &service.ValidationError{Msg: err.Error()})
		return
	}

	err := h.service.Delete(r.Context(), id)
	respond(w, nil, err)
}
