package userprofile

import (
	errors "github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/internal/core/common/patch"
	"github.com/frahmantamala/internship-api/internal/core/common/validation"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
)

type CreateUserProfileDTO struct {
	Photo         *string `json:"photo"`
	PhotoMimeType *string `json:"photoMimeType"`
	UserID        *int64  `json:"userId"`
}

type UpdateUserProfileDTO struct {
	Photo         patch.Field[string] `json:"photo"`
	PhotoMimeType patch.Field[string] `json:"photoMimeType"`
	UserID        patch.Field[int64]  `json:"userId"`
}

func (d CreateUserProfileDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("photoMimeType", d.PhotoMimeType).MaxLength(100)
	return v.Validate()
}

func (d UpdateUserProfileDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("photoMimeType", d.PhotoMimeType).MaxLength(100)
	return v.Validate()
}

func (d CreateUserProfileDTO) ToModel() *datamodel.UserProfile {
	return &datamodel.UserProfile{
		Photo:         d.Photo,
		PhotoMimeType: d.PhotoMimeType,
		UserID:        d.UserID,
	}
}

func (d UpdateUserProfileDTO) Updates() map[string]interface{} {
	u := make(map[string]interface{})
	patch.Put(u, "photo", d.Photo)
	patch.Put(u, "photo_mime_type", d.PhotoMimeType)
	patch.Put(u, "user_id", d.UserID)
	return u
}
