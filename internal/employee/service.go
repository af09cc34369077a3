package employee

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/internal/core/cache"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/dberr"
	"github.com/frahmantamala/internship-api/internal/core/events"
	"github.com/frahmantamala/internship-api/internal/core/query"
)

type RepositoryAPI interface {
	Create(ctx context.Context, e *datamodel.Employee) error
	ListAndCount(ctx context.Context, opts *query.Options) ([]datamodel.Employee, int64, error)
	GetByID(ctx context.Context, id int64, opts *query.Options) (*datamodel.Employee, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	SetDepartment(ctx context.Context, employeeID int64, departmentID *int64) error
	SetUser(ctx context.Context, employeeID, userID int64) error
	UnsetUser(ctx context.Context, employeeID int64) error
}

type Service struct {
	repo      RepositoryAPI
	cache     *cache.Store
	publisher events.Publisher
	maxTake   int
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, store *cache.Store, publisher events.Publisher, maxTake int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		cache:     store,
		publisher: publisher,
		maxTake:   maxTake,
		logger:    logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (*datamodel.Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e := dto.ToModel()
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create employee", "error", err)
		return nil, dberr.Classify(err, msgCreate)
	}

	s.logger.Info("employee created", "employee_id", e.ID)
	events.Notify(ctx, s.publisher, s.logger, events.EventTypeEmployeeChanged, events.ActionCreated, e.ID)
	return e, nil
}

func (s *Service) FindAll(ctx context.Context, rawOptions string) (query.Page[datamodel.Employee], error) {
	opts, err := query.Parse(rawOptions, Schema, s.maxTake)
	if err != nil {
		return query.Page[datamodel.Employee]{}, err
	}
	if opts == nil {
		return cache.Load(s.cache, cache.KeyEmployees, func() (query.Page[datamodel.Employee], error) {
			return s.list(ctx, nil)
		})
	}
	return s.list(ctx, opts)
}

func (s *Service) list(ctx context.Context, opts *query.Options) (query.Page[datamodel.Employee], error) {
	employees, count, err := s.repo.ListAndCount(ctx, opts)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return query.Page[datamodel.Employee]{}, dberr.Classify(err, msgRead)
	}
	return query.NewPage(employees, count), nil
}

func (s *Service) FindOne(ctx context.Context, id int64, rawOptions string) (*datamodel.Employee, error) {
	opts, err := query.Parse(rawOptions, Schema, s.maxTake)
	if err != nil {
		return nil, err
	}
	e, err := s.repo.GetByID(ctx, id, opts)
	if err != nil {
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, dberr.Classify(err, msgRead)
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateEmployeeDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}
	updates := dto.Updates()
	if len(updates) == 0 {
		return 0, nil
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return 0, dberr.Classify(err, msgUpdate)
	}
	if affected > 0 {
		events.Notify(ctx, s.publisher, s.logger, events.EventTypeEmployeeChanged, events.ActionUpdated, id)
	}
	return affected, nil
}

func (s *Service) Remove(ctx context.Context, id int64) (int64, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return 0, dberr.Classify(err, msgDelete)
	}
	if affected > 0 {
		s.logger.Info("employee deleted", "employee_id", id)
		events.Notify(ctx, s.publisher, s.logger, events.EventTypeEmployeeChanged, events.ActionDeleted, id)
	}
	return affected, nil
}

func (s *Service) SetDepartment(ctx context.Context, employeeID, departmentID int64) error {
	return s.relation(ctx, employeeID, s.repo.SetDepartment(ctx, employeeID, &departmentID))
}

func (s *Service) UnsetDepartment(ctx context.Context, employeeID int64) error {
	return s.relation(ctx, employeeID, s.repo.SetDepartment(ctx, employeeID, nil))
}

func (s *Service) SetUser(ctx context.Context, employeeID, userID int64) error {
	return s.relation(ctx, employeeID, s.repo.SetUser(ctx, employeeID, userID))
}

func (s *Service) UnsetUser(ctx context.Context, employeeID int64) error {
	return s.relation(ctx, employeeID, s.repo.UnsetUser(ctx, employeeID))
}

func (s *Service) relation(ctx context.Context, employeeID int64, err error) error {
	if err != nil {
		s.logger.Error("employee relation update failed", "error", err, "employee_id", employeeID)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUserNotFound) {
			return internal.NewNotFoundError(err.Error(), internal.ErrCodeRecordNotFound)
		}
		return dberr.Classify(err, msgRelation)
	}
	events.Notify(ctx, s.publisher, s.logger, events.EventTypeEmployeeChanged, events.ActionRelation, employeeID)
	return nil
}
