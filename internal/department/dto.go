package department

import (
	errors "github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/internal/core/common/patch"
	"github.com/frahmantamala/internship-api/internal/core/common/validation"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
)

type CreateDepartmentDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

// UpdateDepartmentDTO is the body of PATCH /departments/{id}. Omitted members
// are left alone; a null clears the column.
type UpdateDepartmentDTO struct {
	Name        patch.Field[string] `json:"name"`
	Description patch.Field[string] `json:"description"`
	Location    patch.Field[string] `json:"location"`
}

func (d CreateDepartmentDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("location", d.Location).OneOf(datamodel.Countries)
	return v.Validate()
}

func (d UpdateDepartmentDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).NotNull().NotBlank().MaxLength(100)
	v.Field("location", d.Location).OneOf(datamodel.Countries)
	return v.Validate()
}

func (d CreateDepartmentDTO) ToModel() *datamodel.Department {
	return &datamodel.Department{
		Name:        d.Name,
		Description: d.Description,
		Location:    d.Location,
	}
}

func (d UpdateDepartmentDTO) Updates() map[string]interface{} {
	u := make(map[string]interface{})
	patch.Put(u, "name", d.Name)
	patch.Put(u, "description", d.Description)
	patch.Put(u, "location", d.Location)
	return u
}
