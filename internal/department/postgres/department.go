package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/query"
	"github.com/frahmantamala/internship-api/internal/department"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DepartmentRepository implements department.RepositoryAPI using GORM
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *datamodel.Department) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
}

func (r *DepartmentRepository) List(ctx context.Context, opts *query.Options) ([]datamodel.Department, error) {
	var departments []datamodel.Department
	err := opts.Apply(r.db.WithContext(ctx).Model(&datamodel.Department{})).Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64, opts *query.Options) (*datamodel.Department, error) {
	var d datamodel.Department
	if err := r.db.WithContext(ctx).Scopes(opts.Shape).First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&datamodel.Department{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete removes the department; employees and users referencing it keep
// existing with a null department_id.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&datamodel.Department{}, id)
	return result.RowsAffected, result.Error
}

// AddEmployees moves every listed employee into the department. Nothing
// changes unless all of them exist.
func (r *DepartmentRepository) AddEmployees(ctx context.Context, departmentID int64, employeeIDs []int64) error {
	ids := distinct(employeeIDs)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireDepartment(tx, departmentID); err != nil {
			return err
		}
		result := tx.Model(&datamodel.Employee{}).
			Where("id IN ?", ids).
			Update("department_id", departmentID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected < int64(len(ids)) {
			return department.ErrEmployeeNotFound
		}
		return nil
	})
}

func (r *DepartmentRepository) RemoveEmployees(ctx context.Context, departmentID int64, employeeIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireDepartment(tx, departmentID); err != nil {
			return err
		}
		return tx.Model(&datamodel.Employee{}).
			Where("department_id = ? AND id IN ?", departmentID, employeeIDs).
			Update("department_id", nil).Error
	})
}

func requireDepartment(tx *gorm.DB, departmentID int64) error {
	var n int64
	if err := tx.Model(&datamodel.Department{}).Where("id = ?", departmentID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return department.ErrNotFound
	}
	return nil
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
