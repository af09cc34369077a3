package role

import (
	errors "github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/internal/core/common/patch"
	"github.com/frahmantamala/internship-api/internal/core/common/validation"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
)

type CreateRoleDTO struct {
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	FunctionalArea *string `json:"functionalArea"`
}

type UpdateRoleDTO struct {
	Name           patch.Field[string] `json:"name"`
	Description    patch.Field[string] `json:"description"`
	FunctionalArea patch.Field[string] `json:"functionalArea"`
}

func (d CreateRoleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("functionalArea", d.FunctionalArea).OneOf(datamodel.FunctionalAreas)
	return v.Validate()
}

func (d UpdateRoleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).NotNull().NotBlank().MaxLength(100)
	v.Field("functionalArea", d.FunctionalArea).OneOf(datamodel.FunctionalAreas)
	return v.Validate()
}

func (d CreateRoleDTO) ToModel() *datamodel.Role {
	return &datamodel.Role{
		Name:           d.Name,
		Description:    d.Description,
		FunctionalArea: d.FunctionalArea,
	}
}

func (d UpdateRoleDTO) Updates() map[string]interface{} {
	u := make(map[string]interface{})
	patch.Put(u, "name", d.Name)
	patch.Put(u, "description", d.Description)
	patch.Put(u, "functional_area", d.FunctionalArea)
	return u
}
