package role

import (
	"context"
	"net/http"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateRoleDTO) (*datamodel.Role, error)
	FindAll(ctx context.Context, rawOptions string) ([]datamodel.Role, error)
	FindOne(ctx context.Context, id int64, rawOptions string) (*datamodel.Role, error)
	Update(ctx context.Context, id int64, dto UpdateRoleDTO) (int64, error)
	Remove(ctx context.Context, id int64) (int64, error)
	AddUsers(ctx context.Context, roleID int64, userIDs []int64) error
	RemoveUsers(ctx context.Context, roleID int64, userIDs []int64) error
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

// Routes mounts the /roles endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.FindAll)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.FindOne)
		r.Patch("/", h.Update)
		r.Delete("/", h.Remove)

		r.Patch("/users", h.AddUsers)
		r.Delete("/users", h.RemoveUsers)
		r.Patch("/users/{userId}", h.AddUser)
		r.Delete("/users/{userId}", h.RemoveUser)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	role, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.FindAll(r.Context(), r.URL.Query().Get("find-options"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, roles)
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	role, err := h.Service.FindOne(r.Context(), id, r.URL.Query().Get("find-options"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto UpdateRoleDTO
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

func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		ids, err := h.ParseIDs(r, "id", "userId")
		if err != nil {
			return err
		}
		return h.Service.AddUsers(ctx, ids[0], ids[1:])
	})
}

func (h *Handler) AddUsers(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		roleID, userIDs, err := h.parseUserList(r)
		if err != nil {
			return err
		}
		return h.Service.AddUsers(ctx, roleID, userIDs)
	})
}

func (h *Handler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		ids, err := h.ParseIDs(r, "id", "userId")
		if err != nil {
			return err
		}
		return h.Service.RemoveUsers(ctx, ids[0], ids[1:])
	})
}

func (h *Handler) RemoveUsers(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		roleID, userIDs, err := h.parseUserList(r)
		if err != nil {
			return err
		}
		return h.Service.RemoveUsers(ctx, roleID, userIDs)
	})
}

func (h *Handler) parseUserList(r *http.Request) (int64, []int64, error) {
	roleID, err := h.ParseID(r, "id")
	if err != nil {
		return 0, nil, err
	}
	userIDs, err := h.ParseIDList(r, "userid")
	return roleID, userIDs, err
}
