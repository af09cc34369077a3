package auth

import (
	errors "github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	PrimaryEmailAddress string `json:"primaryEmailAddress"`
	Password            string `json:"password"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("primaryEmailAddress", d.PrimaryEmailAddress).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func (d RefreshTokenDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("refreshToken", d.RefreshToken).Required()
	return v.Validate()
}
