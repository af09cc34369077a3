package department

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/dberr"
	"github.com/frahmantamala/internship-api/internal/core/events"
	"github.com/frahmantamala/internship-api/internal/core/query"
)

type RepositoryAPI interface {
	Create(ctx context.Context, d *datamodel.Department) error
	List(ctx context.Context, opts *query.Options) ([]datamodel.Department, error)
	GetByID(ctx context.Context, id int64, opts *query.Options) (*datamodel.Department, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	AddEmployees(ctx context.Context, departmentID int64, employeeIDs []int64) error
	RemoveEmployees(ctx context.Context, departmentID int64, employeeIDs []int64) error
}

// Service manages departments. Department lists are not cached.
type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	maxTake   int
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, maxTake int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		maxTake:   maxTake,
		logger:    logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateDepartmentDTO) (*datamodel.Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d := dto.ToModel()
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("failed to create department", "error", err, "name", dto.Name)
		return nil, dberr.Classify(err, msgCreate)
	}

	s.logger.Info("department created", "department_id", d.ID, "name", d.Name)
	events.Notify(ctx, s.publisher, s.logger, events.EventTypeDepartmentChanged, events.ActionCreated, d.ID)
	return d, nil
}

func (s *Service) FindAll(ctx context.Context, rawOptions string) ([]datamodel.Department, error) {
	opts, err := query.Parse(rawOptions, Schema, s.maxTake)
	if err != nil {
		return nil, err
	}
	departments, err := s.repo.List(ctx, opts)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, dberr.Classify(err, msgRead)
	}
	if departments == nil {
		departments = []datamodel.Department{}
	}
	return departments, nil
}

func (s *Service) FindOne(ctx context.Context, id int64, rawOptions string) (*datamodel.Department, error) {
	opts, err := query.Parse(rawOptions, Schema, s.maxTake)
	if err != nil {
		return nil, err
	}
	d, err := s.repo.GetByID(ctx, id, opts)
	if err != nil {
		s.logger.Error("failed to get department", "error", err, "department_id", id)
		return nil, dberr.Classify(err, msgRead)
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateDepartmentDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}
	updates := dto.Updates()
	if len(updates) == 0 {
		return 0, nil
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.logger.Error("failed to update department", "error", err, "department_id", id)
		return 0, dberr.Classify(err, msgUpdate)
	}
	if affected > 0 {
		events.Notify(ctx, s.publisher, s.logger, events.EventTypeDepartmentChanged, events.ActionUpdated, id)
	}
	return affected, nil
}

func (s *Service) Remove(ctx context.Context, id int64) (int64, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete department", "error", err, "department_id", id)
		return 0, dberr.Classify(err, msgDelete)
	}
	if affected > 0 {
		s.logger.Info("department deleted", "department_id", id)
		events.Notify(ctx, s.publisher, s.logger, events.EventTypeDepartmentChanged, events.ActionDeleted, id)
	}
	return affected, nil
}

func (s *Service) AddEmployees(ctx context.Context, departmentID int64, employeeIDs []int64) error {
	return s.relation(ctx, departmentID, s.repo.AddEmployees(ctx, departmentID, employeeIDs))
}

func (s *Service) RemoveEmployees(ctx context.Context, departmentID int64, employeeIDs []int64) error {
	return s.relation(ctx, departmentID, s.repo.RemoveEmployees(ctx, departmentID, employeeIDs))
}

func (s *Service) relation(ctx context.Context, departmentID int64, err error) error {
	if err != nil {
		s.logger.Error("department relation update failed", "error", err, "department_id", departmentID)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmployeeNotFound) {
			return internal.NewNotFoundError(err.Error(), internal.ErrCodeRecordNotFound)
		}
		return dberr.Classify(err, msgRelation)
	}
	events.Notify(ctx, s.publisher, s.logger, events.EventTypeDepartmentChanged, events.ActionRelation, departmentID)
	return nil
}
