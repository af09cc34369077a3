package userprofile

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/internship-api/internal/core/cache"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/dberr"
	"github.com/frahmantamala/internship-api/internal/core/events"
	"github.com/frahmantamala/internship-api/internal/core/query"
)

type RepositoryAPI interface {
	Create(ctx context.Context, p *datamodel.UserProfile) error
	List(ctx context.Context, opts *query.Options) ([]datamodel.UserProfile, error)
	GetByID(ctx context.Context, id int64, opts *query.Options) (*datamodel.UserProfile, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
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

// Create stores the profile. A userId already owned by another profile is a
// constraint violation.
func (s *Service) Create(ctx context.Context, dto CreateUserProfileDTO) (*datamodel.UserProfile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := dto.ToModel()
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create user profile", "error", err)
		return nil, dberr.Classify(err, msgCreate)
	}

	s.logger.Info("user profile created", "user_profile_id", p.ID)
	events.Notify(ctx, s.publisher, s.logger, events.EventTypeUserProfileChanged, events.ActionCreated, p.ID)
	return p, nil
}

func (s *Service) FindAll(ctx context.Context, rawOptions string) ([]datamodel.UserProfile, error) {
	opts, err := query.Parse(rawOptions, Schema, s.maxTake)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		return cache.Load(s.cache, cache.KeyUserProfiles, func() ([]datamodel.UserProfile, error) {
			return s.list(ctx, nil)
		})
	}
	return s.list(ctx, opts)
}

func (s *Service) list(ctx context.Context, opts *query.Options) ([]datamodel.UserProfile, error) {
	profiles, err := s.repo.List(ctx, opts)
	if err != nil {
		s.logger.Error("failed to list user profiles", "error", err)
		return nil, dberr.Classify(err, msgRead)
	}
	if profiles == nil {
		profiles = []datamodel.UserProfile{}
	}
	return profiles, nil
}

func (s *Service) FindOne(ctx context.Context, id int64, rawOptions string) (*datamodel.UserProfile, error) {
	opts, err := query.Parse(rawOptions, Schema, s.maxTake)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id, opts)
	if err != nil {
		s.logger.Error("failed to get user profile", "error", err, "user_profile_id", id)
		return nil, dberr.Classify(err, msgRead)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserProfileDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}
	updates := dto.Updates()
	if len(updates) == 0 {
		return 0, nil
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.logger.Error("failed to update user profile", "error", err, "user_profile_id", id)
		return 0, dberr.Classify(err, msgUpdate)
	}
	if affected > 0 {
		events.Notify(ctx, s.publisher, s.logger, events.EventTypeUserProfileChanged, events.ActionUpdated, id)
	}
	return affected, nil
}

func (s *Service) Remove(ctx context.Context, id int64) (int64, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete user profile", "error", err, "user_profile_id", id)
		return 0, dberr.Classify(err, msgDelete)
	}
	if affected > 0 {
		s.logger.Info("user profile deleted", "user_profile_id", id)
		events.Notify(ctx, s.publisher, s.logger, events.EventTypeUserProfileChanged, events.ActionDeleted, id)
	}
	return affected, nil
}
