package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/query"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateEmployeeDTO) (*datamodel.Employee, error)
	FindAll(ctx context.Context, rawOptions string) (query.Page[datamodel.Employee], error)
	FindOne(ctx context.Context, id int64, rawOptions string) (*datamodel.Employee, error)
	Update(ctx context.Context, id int64, dto UpdateEmployeeDTO) (int64, error)
	Remove(ctx context.Context, id int64) (int64, error)
	SetDepartment(ctx context.Context, employeeID, departmentID int64) error
	UnsetDepartment(ctx context.Context, employeeID int64) error
	SetUser(ctx context.Context, employeeID, userID int64) error
	UnsetUser(ctx context.Context, employeeID int64) error
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
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.FindOne)
		r.Patch("/", h.Update)
		r.Delete("/", h.Remove)

		r.Patch("/departments/{departmentId}", h.SetDepartment)
		r.Delete("/department", h.UnsetDepartment)

		r.Patch("/users/{userId}", h.SetUser)
		r.Delete("/users", h.UnsetUser)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	e, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.FindAll(r.Context(), r.URL.Query().Get("find-options"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	e, err := h.Service.FindOne(r.Context(), id, r.URL.Query().Get("find-options"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto UpdateEmployeeDTO
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

func (h *Handler) SetDepartment(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		ids, err := h.ParseIDs(r, "id", "departmentId")
		if err != nil {
			return err
		}
		return h.Service.SetDepartment(ctx, ids[0], ids[1])
	})
}

func (h *Handler) UnsetDepartment(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		id, err := h.ParseID(r, "id")
		if err != nil {
			return err
		}
		return h.Service.UnsetDepartment(ctx, id)
	})
}

func (h *Handler) SetUser(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		ids, err := h.ParseIDs(r, "id", "userId")
		if err != nil {
			return err
		}
		return h.Service.SetUser(ctx, ids[0], ids[1])
	})
}

func (h *Handler) UnsetUser(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		id, err := h.ParseID(r, "id")
		if err != nil {
			return err
		}
		return h.Service.UnsetUser(ctx, id)
	})
}
