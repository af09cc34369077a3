package employee

import (
	errors "github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/internal/core/common/patch"
	"github.com/frahmantamala/internship-api/internal/core/common/validation"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
)

type CreateEmployeeDTO struct {
	EmployeeNumber *string `json:"employeeNumber"`
	FirstName      string  `json:"firstName"`
	MiddleName     *string `json:"middleName"`
	LastName       string  `json:"lastName"`
	JobPosition    *string `json:"jobPosition"`
	JobTitle       *string `json:"jobTitle"`
	Photo          *string `json:"photo"`
	DepartmentID   *int64  `json:"departmentId"`
}

type UpdateEmployeeDTO struct {
	EmployeeNumber patch.Field[string] `json:"employeeNumber"`
	FirstName      patch.Field[string] `json:"firstName"`
	MiddleName     patch.Field[string] `json:"middleName"`
	LastName       patch.Field[string] `json:"lastName"`
	JobPosition    patch.Field[string] `json:"jobPosition"`
	JobTitle       patch.Field[string] `json:"jobTitle"`
	Photo          patch.Field[string] `json:"photo"`
	DepartmentID   patch.Field[int64]  `json:"departmentId"`
}

func (d CreateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("employeeNumber", d.EmployeeNumber).MaxLength(50)
	v.Field("firstName", d.FirstName).Required().MaxLength(100)
	v.Field("lastName", d.LastName).Required().MaxLength(100)
	v.Field("jobPosition", d.JobPosition).MaxLength(100)
	v.Field("jobTitle", d.JobTitle).MaxLength(100)
	return v.Validate()
}

func (d UpdateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("employeeNumber", d.EmployeeNumber).MaxLength(50)
	v.Field("firstName", d.FirstName).NotNull().NotBlank().MaxLength(100)
	v.Field("lastName", d.LastName).NotNull().NotBlank().MaxLength(100)
	v.Field("jobPosition", d.JobPosition).MaxLength(100)
	v.Field("jobTitle", d.JobTitle).MaxLength(100)
	return v.Validate()
}

func (d CreateEmployeeDTO) ToModel() *datamodel.Employee {
	return &datamodel.Employee{
		EmployeeNumber: d.EmployeeNumber,
		FirstName:      d.FirstName,
		MiddleName:     d.MiddleName,
		LastName:       d.LastName,
		JobPosition:    d.JobPosition,
		JobTitle:       d.JobTitle,
		Photo:          d.Photo,
		DepartmentID:   d.DepartmentID,
	}
}

// Updates returns the supplied fields keyed by column. Nulls are kept.
func (d UpdateEmployeeDTO) Updates() map[string]interface{} {
	u := make(map[string]interface{})
	patch.Put(u, "employee_number", d.EmployeeNumber)
	patch.Put(u, "first_name", d.FirstName)
	patch.Put(u, "middle_name", d.MiddleName)
	patch.Put(u, "last_name", d.LastName)
	patch.Put(u, "job_position", d.JobPosition)
	patch.Put(u, "job_title", d.JobTitle)
	patch.Put(u, "photo", d.Photo)
	patch.Put(u, "department_id", d.DepartmentID)
	return u
}
