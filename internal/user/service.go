package user

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
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	Create(ctx context.Context, u *datamodel.User) error
	ListAndCount(ctx context.Context, opts *query.Options) ([]datamodel.User, int64, error)
	GetByID(ctx context.Context, id int64, opts *query.Options) (*datamodel.User, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	AddRoles(ctx context.Context, userID int64, roleIDs []int64) error
	RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) error
	SetDepartment(ctx context.Context, userID int64, departmentID *int64) error
	SetEmployee(ctx context.Context, userID int64, employeeID *int64) error
	SetUserProfile(ctx context.Context, userID, profileID int64) error
	UnsetUserProfile(ctx context.Context, userID int64) error
}

// Config carries the settings the service reads from the application config.
type Config struct {
	MaxTake    int
	BCryptCost int
}

type Service struct {
	repo      RepositoryAPI
	cache     *cache.Store
	publisher events.Publisher
	cfg       Config
	logger    *slog.Logger
}

// NewService builds the user service. store and publisher may be nil.
func NewService(repo RepositoryAPI, store *cache.Store, publisher events.Publisher, cfg Config, logger *slog.Logger) *Service {
	if cfg.BCryptCost == 0 {
		cfg.BCryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		cache:     store,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*datamodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.PasswordHash), s.cfg.BCryptCost)
	if err != nil {
		return nil, internal.NewInternalError(msgCreate, err)
	}

	u := dto.ToModel(string(hash))
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", u.PrimaryEmailAddress)
		return nil, dberr.Classify(err, msgCreate)
	}

	s.logger.Info("user created", "user_id", u.ID)
	events.Notify(ctx, s.publisher, s.logger, events.EventTypeUserChanged, events.ActionCreated, u.ID)
	return u, nil
}

// FindAll returns every user with the total count. Results without options
// are served from the result cache.
func (s *Service) FindAll(ctx context.Context, rawOptions string) (query.Page[datamodel.User], error) {
	opts, err := query.Parse(rawOptions, Schema, s.cfg.MaxTake)
	if err != nil {
		return query.Page[datamodel.User]{}, err
	}
	if opts == nil {
		return cache.Load(s.cache, cache.KeyUsers, func() (query.Page[datamodel.User], error) {
			return s.list(ctx, nil)
		})
	}
	return s.list(ctx, opts)
}

func (s *Service) list(ctx context.Context, opts *query.Options) (query.Page[datamodel.User], error) {
	users, count, err := s.repo.ListAndCount(ctx, opts)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return query.Page[datamodel.User]{}, dberr.Classify(err, msgRead)
	}
	return query.NewPage(users, count), nil
}

// FindOne returns nil when the user does not exist.
func (s *Service) FindOne(ctx context.Context, id int64, rawOptions string) (*datamodel.User, error) {
	opts, err := query.Parse(rawOptions, Schema, s.cfg.MaxTake)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id, opts)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, dberr.Classify(err, msgRead)
	}
	return u, nil
}

// Update overwrites the supplied fields. A non-empty password is hashed
// again; an empty one is ignored.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	updates := dto.Updates()
	if pw := dto.PasswordHash.Ptr(); pw != nil && *pw != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*pw), s.cfg.BCryptCost)
		if err != nil {
			return 0, internal.NewInternalError(msgUpdate, err)
		}
		updates["password_hash"] = string(hash)
	}
	if len(updates) == 0 {
		return 0, nil
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return 0, dberr.Classify(err, msgUpdate)
	}
	if affected > 0 {
		events.Notify(ctx, s.publisher, s.logger, events.EventTypeUserChanged, events.ActionUpdated, id)
	}
	return affected, nil
}

func (s *Service) Remove(ctx context.Context, id int64) (int64, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return 0, dberr.Classify(err, msgDelete)
	}
	if affected > 0 {
		s.logger.Info("user deleted", "user_id", id)
		events.Notify(ctx, s.publisher, s.logger, events.EventTypeUserChanged, events.ActionDeleted, id)
	}
	return affected, nil
}

func (s *Service) AddRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return s.relation(ctx, userID, "add roles", s.repo.AddRoles(ctx, userID, roleIDs))
}

func (s *Service) RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return s.relation(ctx, userID, "remove roles", s.repo.RemoveRoles(ctx, userID, roleIDs))
}

func (s *Service) SetDepartment(ctx context.Context, userID, departmentID int64) error {
	return s.relation(ctx, userID, "set department", s.repo.SetDepartment(ctx, userID, &departmentID))
}

func (s *Service) UnsetDepartment(ctx context.Context, userID int64) error {
	return s.relation(ctx, userID, "unset department", s.repo.SetDepartment(ctx, userID, nil))
}

func (s *Service) SetEmployee(ctx context.Context, userID, employeeID int64) error {
	return s.relation(ctx, userID, "set employee", s.repo.SetEmployee(ctx, userID, &employeeID))
}

func (s *Service) UnsetEmployee(ctx context.Context, userID int64) error {
	return s.relation(ctx, userID, "unset employee", s.repo.SetEmployee(ctx, userID, nil))
}

func (s *Service) SetUserProfile(ctx context.Context, userID, profileID int64) error {
	return s.relation(ctx, userID, "set user profile", s.repo.SetUserProfile(ctx, userID, profileID))
}

func (s *Service) UnsetUserProfile(ctx context.Context, userID int64) error {
	return s.relation(ctx, userID, "unset user profile", s.repo.UnsetUserProfile(ctx, userID))
}

// relation classifies the outcome of a relation write and announces it when it succeeded.
func (s *Service) relation(ctx context.Context, userID int64, op string, err error) error {
	if err != nil {
		s.logger.Error("user relation update failed", "op", op, "error", err, "user_id", userID)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrProfileNotFound) {
			return internal.NewNotFoundError(err.Error(), internal.ErrCodeRecordNotFound)
		}
		return dberr.Classify(err, msgRelation)
	}
	events.Notify(ctx, s.publisher, s.logger, events.EventTypeUserChanged, events.ActionRelation, userID)
	return nil
}
