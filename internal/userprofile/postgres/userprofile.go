package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/query"
	"github.com/frahmantamala/internship-api/internal/userprofile"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserProfileRepository implements userprofile.RepositoryAPI using GORM
type UserProfileRepository struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) userprofile.RepositoryAPI {
	return &UserProfileRepository{db: db}
}

func (r *UserProfileRepository) Create(ctx context.Context, p *datamodel.UserProfile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *UserProfileRepository) List(ctx context.Context, opts *query.Options) ([]datamodel.UserProfile, error) {
	var profiles []datamodel.UserProfile
	err := opts.Apply(r.db.WithContext(ctx).Model(&datamodel.UserProfile{})).Find(&profiles).Error
	return profiles, err
}

func (r *UserProfileRepository) GetByID(ctx context.Context, id int64, opts *query.Options) (*datamodel.UserProfile, error) {
	var p datamodel.UserProfile
	if err := r.db.WithContext(ctx).Scopes(opts.Shape).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *UserProfileRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&datamodel.UserProfile{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *UserProfileRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&datamodel.UserProfile{}, id)
	return result.RowsAffected, result.Error
}
