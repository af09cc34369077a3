package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/query"
	"github.com/frahmantamala/internship-api/internal/employee"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeRepository implements employee.RepositoryAPI using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *datamodel.Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *EmployeeRepository) ListAndCount(ctx context.Context, opts *query.Options) ([]datamodel.Employee, int64, error) {
	db := r.db.WithContext(ctx)

	var employees []datamodel.Employee
	if err := opts.Apply(db.Model(&datamodel.Employee{})).Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	var count int64
	if err := db.Model(&datamodel.Employee{}).Scopes(opts.Filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	return employees, count, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64, opts *query.Options) (*datamodel.Employee, error) {
	var e datamodel.Employee
	if err := r.db.WithContext(ctx).Scopes(opts.Shape).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&datamodel.Employee{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete removes the employee. The referencing user keeps existing with a null employee_id.
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&datamodel.Employee{}, id)
	return result.RowsAffected, result.Error
}

// SetDepartment points the employee at departmentID, or clears the link when it is nil.
func (r *EmployeeRepository) SetDepartment(ctx context.Context, employeeID int64, departmentID *int64) error {
	result := r.db.WithContext(ctx).Model(&datamodel.Employee{}).
		Where("id = ?", employeeID).
		Update("department_id", departmentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrNotFound
	}
	return nil
}

// SetUser makes userID the only user linked to the employee.
func (r *EmployeeRepository) SetUser(ctx context.Context, employeeID, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireEmployee(tx, employeeID); err != nil {
			return err
		}

		if err := tx.Model(&datamodel.User{}).
			Where("employee_id = ? AND id <> ?", employeeID, userID).
			Update("employee_id", nil).Error; err != nil {
			return err
		}
		result := tx.Model(&datamodel.User{}).
			Where("id = ?", userID).
			Update("employee_id", employeeID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return employee.ErrUserNotFound
		}
		return nil
	})
}

func (r *EmployeeRepository) UnsetUser(ctx context.Context, employeeID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireEmployee(tx, employeeID); err != nil {
			return err
		}
		return tx.Model(&datamodel.User{}).
			Where("employee_id = ?", employeeID).
			Update("employee_id", nil).Error
	})
}

func requireEmployee(tx *gorm.DB, employeeID int64) error {
	var n int64
	if err := tx.Model(&datamodel.Employee{}).Where("id = ?", employeeID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return employee.ErrNotFound
	}
	return nil
}
