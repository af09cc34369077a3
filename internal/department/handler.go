package department

import (
	"context"
	"net/http"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateDepartmentDTO) (*datamodel.Department, error)
	FindAll(ctx context.Context, rawOptions string) ([]datamodel.Department, error)
	FindOne(ctx context.Context, id int64, rawOptions string) (*datamodel.Department, error)
	Update(ctx context.Context, id int64, dto UpdateDepartmentDTO) (int64, error)
	Remove(ctx context.Context, id int64) (int64, error)
	AddEmployees(ctx context.Context, departmentID int64, employeeIDs []int64) error
	RemoveEmployees(ctx context.Context, departmentID int64, employeeIDs []int64) error
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

		r.Patch("/employees", h.AddEmployees)
		r.Delete("/employees", h.RemoveEmployees)
		r.Patch("/employees/{employeeId}", h.AddEmployee)
		r.Delete("/employees/{employeeId}", h.RemoveEmployee)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateDepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	d, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.FindAll(r.Context(), r.URL.Query().Get("find-options"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, departments)
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	d, err := h.Service.FindOne(r.Context(), id, r.URL.Query().Get("find-options"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto UpdateDepartmentDTO
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

func (h *Handler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		ids, err := h.ParseIDs(r, "id", "employeeId")
		if err != nil {
			return err
		}
		return h.Service.AddEmployees(ctx, ids[0], ids[1:])
	})
}

func (h *Handler) AddEmployees(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		departmentID, employeeIDs, err := h.parseEmployeeList(r)
		if err != nil {
			return err
		}
		return h.Service.AddEmployees(ctx, departmentID, employeeIDs)
	})
}

func (h *Handler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		ids, err := h.ParseIDs(r, "id", "employeeId")
		if err != nil {
			return err
		}
		return h.Service.RemoveEmployees(ctx, ids[0], ids[1:])
	})
}

func (h *Handler) RemoveEmployees(w http.ResponseWriter, r *http.Request) {
	h.HandleRelation(w, r, func(ctx context.Context) error {
		departmentID, employeeIDs, err := h.parseEmployeeList(r)
		if err != nil {
			return err
		}
		return h.Service.RemoveEmployees(ctx, departmentID, employeeIDs)
	})
}

func (h *Handler) parseEmployeeList(r *http.Request) (int64, []int64, error) {
	departmentID, err := h.ParseID(r, "id")
	if err != nil {
		return 0, nil, err
	}
	employeeIDs, err := h.ParseIDList(r, "employeeid")
	return departmentID, employeeIDs, err
}
