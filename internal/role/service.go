package role

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
	Create(ctx context.Context, r *datamodel.Role) error
	List(ctx context.Context, opts *query.Options) ([]datamodel.Role, error)
	GetByID(ctx context.Context, id int64, opts *query.Options) (*datamodel.Role, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	AddUsers(ctx context.Context, roleID int64, userIDs []int64) error
	RemoveUsers(ctx context.Context, roleID int64, userIDs []int64) error
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

func (s *Service) Create(ctx context.Context, dto CreateRoleDTO) (*datamodel.Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r := dto.ToModel()
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("failed to create role", "error", err, "name", dto.Name)
		return nil, dberr.Classify(err, msgCreate)
	}

	s.logger.Info("role created", "role_id", r.ID, "name", r.Name)
	events.Notify(ctx, s.publisher, s.logger, events.EventTypeRoleChanged, events.ActionCreated, r.ID)
	return r, nil
}

func (s *Service) FindAll(ctx context.Context, rawOptions string) ([]datamodel.Role, error) {
	opts, err := query.Parse(rawOptions, Schema, s.maxTake)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		return cache.Load(s.cache, cache.KeyRoles, func() ([]datamodel.Role, error) {
			return s.list(ctx, nil)
		})
	}
	return s.list(ctx, opts)
}

func (s *Service) list(ctx context.Context, opts *query.Options) ([]datamodel.Role, error) {
	roles, err := s.repo.List(ctx, opts)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, dberr.Classify(err, msgRead)
	}
	if roles == nil {
		roles = []datamodel.Role{}
	}
	return roles, nil
}

func (s *Service) FindOne(ctx context.Context, id int64, rawOptions string) (*datamodel.Role, error) {
	opts, err := query.Parse(rawOptions, Schema, s.maxTake)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.GetByID(ctx, id, opts)
	if err != nil {
		s.logger.Error("failed to get role", "error", err, "role_id", id)
		return nil, dberr.Classify(err, msgRead)
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateRoleDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}
	updates := dto.Updates()
	if len(updates) == 0 {
		return 0, nil
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.logger.Error("failed to update role", "error", err, "role_id", id)
		return 0, dberr.Classify(err, msgUpdate)
	}
	if affected > 0 {
		events.Notify(ctx, s.publisher, s.logger, events.EventTypeRoleChanged, events.ActionUpdated, id)
	}
	return affected, nil
}

func (s *Service) Remove(ctx context.Context, id int64) (int64, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete role", "error", err, "role_id", id)
		return 0, dberr.Classify(err, msgDelete)
	}
	if affected > 0 {
		s.logger.Info("role deleted", "role_id", id)
		events.Notify(ctx, s.publisher, s.logger, events.EventTypeRoleChanged, events.ActionDeleted, id)
	}
	return affected, nil
}

// AddUsers inserts one membership per user. An unknown role is a not-found
// error; an existing membership or an unknown user fails the whole call with a
// constraint error.
func (s *Service) AddUsers(ctx context.Context, roleID int64, userIDs []int64) error {
	return s.relation(ctx, roleID, userIDs, s.repo.AddUsers(ctx, roleID, userIDs))
}

func (s *Service) RemoveUsers(ctx context.Context, roleID int64, userIDs []int64) error {
	return s.relation(ctx, roleID, userIDs, s.repo.RemoveUsers(ctx, roleID, userIDs))
}

func (s *Service) relation(ctx context.Context, roleID int64, userIDs []int64, err error) error {
	if err != nil {
		s.logger.Error("role membership update failed", "error", err, "role_id", roleID)
		if errors.Is(err, ErrNotFound) {
			return internal.NewNotFoundError(err.Error(), internal.ErrCodeRecordNotFound)
		}
		return dberr.Classify(err, msgRelation)
	}
	// memberships show up in preloaded user rows too
	events.Notify(ctx, s.publisher, s.logger, events.EventTypeRoleChanged, events.ActionRelation, roleID)
	events.Notify(ctx, s.publisher, s.logger, events.EventTypeUserChanged, events.ActionRelation, userIDs...)
	return nil
}
