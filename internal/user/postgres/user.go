package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/query"
	"github.com/frahmantamala/internship-api/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements user.RepositoryAPI using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

// Create inserts the user and, when present, its profile in one transaction.
func (r *UserRepository) Create(ctx context.Context, u *datamodel.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := u.UserProfile
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		profile.UserID = &u.ID
		return tx.Omit(clause.Associations).Create(profile).Error
	})
}

func (r *UserRepository) ListAndCount(ctx context.Context, opts *query.Options) ([]datamodel.User, int64, error) {
	db := r.db.WithContext(ctx)

	var users []datamodel.User
	if err := opts.Apply(db.Model(&datamodel.User{})).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	var count int64
	if err := db.Model(&datamodel.User{}).Scopes(opts.Filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

// GetByID returns nil without an error when no user has the id.
func (r *UserRepository) GetByID(ctx context.Context, id int64, opts *query.Options) (*datamodel.User, error) {
	var u datamodel.User
	err := r.db.WithContext(ctx).Scopes(opts.Shape).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&datamodel.User{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&datamodel.User{}, id)
	return result.RowsAffected, result.Error
}

// AddRoles inserts one join row per role. An existing membership is a
// duplicate key and fails the whole batch.
func (r *UserRepository) AddRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	rows := make([]datamodel.UserRole, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		rows = append(rows, datamodel.UserRole{UserID: userID, RoleID: roleID})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
}

func (r *UserRepository) RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		return tx.Where("user_id = ? AND role_id IN ?", userID, roleIDs).
			Delete(&datamodel.UserRole{}).Error
	})
}

// SetDepartment points the user at departmentID, or clears the link when it is nil.
func (r *UserRepository) SetDepartment(ctx context.Context, userID int64, departmentID *int64) error {
	return r.setColumn(ctx, userID, "department_id", departmentID)
}

// SetEmployee links the user to employeeID, or clears the link when it is nil.
// An employee already linked to another user violates the unique index.
func (r *UserRepository) SetEmployee(ctx context.Context, userID int64, employeeID *int64) error {
	return r.setColumn(ctx, userID, "employee_id", employeeID)
}

func (r *UserRepository) setColumn(ctx context.Context, userID int64, column string, value *int64) error {
	result := r.db.WithContext(ctx).Model(&datamodel.User{}).
		Where("id = ?", userID).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

// SetUserProfile detaches whatever profile the user has and attaches profileID.
func (r *UserRepository) SetUserProfile(ctx context.Context, userID, profileID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Model(&datamodel.UserProfile{}).
			Where("user_id = ? AND id <> ?", userID, profileID).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		result := tx.Model(&datamodel.UserProfile{}).
			Where("id = ?", profileID).
			Update("user_id", userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return user.ErrProfileNotFound
		}
		return nil
	})
}

func (r *UserRepository) UnsetUserProfile(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		return tx.Model(&datamodel.UserProfile{}).
			Where("user_id = ?", userID).
			Update("user_id", nil).Error
	})
}

func requireUser(tx *gorm.DB, userID int64) error {
	var n int64
	if err := tx.Model(&datamodel.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}
