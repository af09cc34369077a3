package userprofile

import (
	"context"
	"net/http"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateUserProfileDTO) (*datamodel.UserProfile, error)
	FindAll(ctx context.Context, rawOptions string) ([]datamodel.UserProfile, error)
	FindOne(ctx context.Context, id int64, rawOptions string) (*datamodel.UserProfile, error)
	Update(ctx context.Context, id int64, dto UpdateUserProfileDTO) (int64, error)
	Remove(ctx context.Context, id int64) (int64, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.FindAll)
	r.Get("/{id}", h.FindOne)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Remove)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserProfileDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	p, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Service.FindAll(r.Context(), r.URL.Query().Get("find-options"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profiles)
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	p, err := h.Service.FindOne(r.Context(), id, r.URL.Query().Get("find-options"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto UpdateUserProfileDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	affected, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.AffectedResponse{Affected: affected})
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	affected, err := h.Service.Remove(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.AffectedResponse{Affected: affected})
}
