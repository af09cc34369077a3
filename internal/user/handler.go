package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/query"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateUserDTO) (*datamodel.User, error)
	FindAll(ctx context.Context, rawOptions string) (query.Page[datamodel.User], error)
	FindOne(ctx context.Context, id int64, rawOptions string) (*datamodel.User, error)
	Update(ctx context.Context, id int64, dto UpdateUserDTO) (int64, error)
	Remove(ctx context.Context, id int64) (int64, error)
	AddRoles(ctx context.Context, userID int64, roleIDs []int64) error
	RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) error
	SetDepartment(ctx context.Context, userID, departmentID int64) error
	UnsetDepartment(ctx context.Context, userID int64) error
	SetEmployee(ctx context.Context, userID, employeeID int64) error
	UnsetEmployee(ctx context.Context, userID int64) error
	SetUserProfile(ctx context.Context, userID, profileID int64) error
	UnsetUserProfile(ctx context.Context, userID int64) error
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

// Routes mounts the /users endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.FindAll)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.FindOne)
		r.Patch("/", h.Update)
		r.Delete("/", h.Remove)

		r.Patch("/roles", h.AddRoles)
		r.Delete("/roles", h.RemoveRoles)
		r.Patch("/roles/{roleId}", h.AddRole)
		r.Delete("/roles/{roleId}", h.RemoveRole)

		r.Patch("/departments/{departmentId}", h.SetDepartment)
		r.Delete("/departments", h.UnsetDepartment)

		r.Patch("/user-profiles/{userProfileId}", h.SetUserProfile)
		r.Delete("/user-profiles", h.UnsetUserProfile)

		r.Patch("/employees/{employeeId}", h.SetEmployee)
		r.Delete("/employees", h.UnsetEmployee)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	u, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
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

	u, err := h.Service.FindOne(r.Context(), id, r.URL.Query().Get("find-options"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto UpdateUserDTO
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

func (h *Handler) AddRole(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		ids, err := h.ParseIDs(r, "id", "roleId")
		if err != nil {
			return err
		}
		return h.Service.AddRoles(ctx, ids[0], ids[1:])
	})
}

func (h *Handler) AddRoles(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		userID, roleIDs, err := h.parseRoleList(r)
		if err != nil {
			return err
		}
		return h.Service.AddRoles(ctx, userID, roleIDs)
	})
}

func (h *Handler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		ids, err := h.ParseIDs(r, "id", "roleId")
		if err != nil {
			return err
		}
		return h.Service.RemoveRoles(ctx, ids[0], ids[1:])
	})
}

func (h *Handler) RemoveRoles(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		userID, roleIDs, err := h.parseRoleList(r)
		if err != nil {
			return err
		}
		return h.Service.RemoveRoles(ctx, userID, roleIDs)
	})
}

func (h *Handler) parseRoleList(r *http.Request) (int64, []int64, error) {
	userID, err := h.ParseID(r, "id")
	if err != nil {
		return 0, nil, err
	}
	roleIDs, err := h.ParseIDList(r, "roleid")
	return userID, roleIDs, err
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
		userID, err := h.ParseID(r, "id")
		if err != nil {
			return err
		}
		return h.Service.UnsetDepartment(ctx, userID)
	})
}

func (h *Handler) SetUserProfile(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		ids, err := h.ParseIDs(r, "id", "userProfileId")
		if err != nil {
			return err
		}
		return h.Service.SetUserProfile(ctx, ids[0], ids[1])
	})
}

func (h *Handler) UnsetUserProfile(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		userID, err := h.ParseID(r, "id")
		if err != nil {
			return err
		}
		return h.Service.UnsetUserProfile(ctx, userID)
	})
}

func (h *Handler) SetEmployee(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		ids, err := h.ParseIDs(r, "id", "employeeId")
		if err != nil {
			return err
		}
		return h.Service.SetEmployee(ctx, ids[0], ids[1])
	})
}

func (h *Handler) UnsetEmployee(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		userID, err := h.ParseID(r, "id")
		if err != nil {
			return err
		}
		return h.Service.UnsetEmployee(ctx, userID)
	})
}
