package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/query"
	"github.com/frahmantamala/internship-api/internal/role"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleRepository implements role.RepositoryAPI using GORM
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, rl *datamodel.Role) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rl).Error
}

func (r *RoleRepository) List(ctx context.Context, opts *query.Options) ([]datamodel.Role, error) {
	var roles []datamodel.Role
	err := opts.Apply(r.db.WithContext(ctx).Model(&datamodel.Role{})).Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64, opts *query.Options) (*datamodel.Role, error) {
	var rl datamodel.Role
	if err := r.db.WithContext(ctx).Scopes(opts.Shape).First(&rl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rl, nil
}

func (r *RoleRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&datamodel.Role{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete removes the role and, through the cascade, its memberships.
func (r *RoleRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&datamodel.Role{}, id)
	return result.RowsAffected, result.Error
}

func (r *RoleRepository) AddUsers(ctx context.Context, roleID int64, userIDs []int64) error {
	rows := make([]datamodel.UserRole, 0, len(userIDs))
	for _, userID := range userIDs {
		rows = append(rows, datamodel.UserRole{UserID: userID, RoleID: roleID})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRole(tx, roleID); err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
}

func (r *RoleRepository) RemoveUsers(ctx context.Context, roleID int64, userIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRole(tx, roleID); err != nil {
			return err
		}
		return tx.Where("role_id = ? AND user_id IN ?", roleID, userIDs).
			Delete(&datamodel.UserRole{}).Error
	})
}

func requireRole(tx *gorm.DB, roleID int64) error {
	var n int64
	if err := tx.Model(&datamodel.Role{}).Where("id = ?", roleID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return role.ErrNotFound
	}
	return nil
}
