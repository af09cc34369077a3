package user

import (
	"encoding/json"
	"strings"
	"time"

	errors "github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/internal/core/common/patch"
	"github.com/frahmantamala/internship-api/internal/core/common/validation"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
)

// Date accepts either a calendar date (2006-01-02) or a full RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return errors.NewValidationFieldError("dateOfBirth", "dates must be YYYY-MM-DD or RFC 3339", errors.ErrCodeValidationFailed)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}

func (d *Date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// ProfileInput creates a profile together with the user.
type ProfileInput struct {
	Photo         *string `json:"photo"`
	PhotoMimeType *string `json:"photoMimeType"`
}

// CreateUserDTO is the body of POST /users. PasswordHash carries the plaintext
// password; it is hashed before it is stored.
type CreateUserDTO struct {
	FirstName                     string           `json:"firstName"`
	MiddleName                    *string          `json:"middleName"`
	LastName                      string           `json:"lastName"`
	CommonName                    *string          `json:"commonName"`
	HomeAddress                   *string          `json:"homeAddress"`
	Gender                        *string          `json:"gender"`
	DateOfBirth                   *Date            `json:"dateOfBirth"`
	Nationality                   *string          `json:"nationality"`
	State                         *string          `json:"state"`
	City                          *string          `json:"city"`
	County                        *string          `json:"county"`
	Zip                           *string          `json:"zip"`
	IsActive                      *bool            `json:"isActive"`
	IsSoftDeleted                 *bool            `json:"isSoftDeleted"`
	PrimaryEmailAddress           string           `json:"primaryEmailAddress"`
	BackupEmailAddress            *string          `json:"backupEmailAddress"`
	Phone                         *datamodel.Phone `json:"phone"`
	IsPrimaryEmailAddressVerified *bool            `json:"isPrimaryEmailAddressVerified"`
	IsBackupEmailAddressVerified  *bool            `json:"isBackupEmailAddressVerified"`
	PasswordHash                  string           `json:"passwordHash"`
	IsPasswordChangeRequired      *bool            `json:"isPasswordChangeRequired"`
	OTPEnabled                    *bool            `json:"otpEnabled"`
	DepartmentID                  *int64           `json:"departmentId"`
	EmployeeID                    *int64           `json:"employeeId"`
	UserProfile                   *ProfileInput    `json:"userProfile"`
}

// UpdateUserDTO is the body of PATCH /users/{id}. Only supplied members
// change; a null clears a nullable column.
type UpdateUserDTO struct {
	FirstName                     patch.Field[string]          `json:"firstName"`
	MiddleName                    patch.Field[string]          `json:"middleName"`
	LastName                      patch.Field[string]          `json:"lastName"`
	CommonName                    patch.Field[string]          `json:"commonName"`
	HomeAddress                   patch.Field[string]          `json:"homeAddress"`
	Gender                        patch.Field[string]          `json:"gender"`
	DateOfBirth                   patch.Field[Date]            `json:"dateOfBirth"`
	Nationality                   patch.Field[string]          `json:"nationality"`
	State                         patch.Field[string]          `json:"state"`
	City                          patch.Field[string]          `json:"city"`
	County                        patch.Field[string]          `json:"county"`
	Zip                           patch.Field[string]          `json:"zip"`
	IsActive                      patch.Field[bool]            `json:"isActive"`
	IsSoftDeleted                 patch.Field[bool]            `json:"isSoftDeleted"`
	PrimaryEmailAddress           patch.Field[string]          `json:"primaryEmailAddress"`
	BackupEmailAddress            patch.Field[string]          `json:"backupEmailAddress"`
	Phone                         patch.Field[datamodel.Phone] `json:"phone"`
	IsPrimaryEmailAddressVerified patch.Field[bool]            `json:"isPrimaryEmailAddressVerified"`
	IsBackupEmailAddressVerified  patch.Field[bool]            `json:"isBackupEmailAddressVerified"`
	PasswordHash                  patch.Field[string]          `json:"passwordHash"`
	IsPasswordChangeRequired      patch.Field[bool]            `json:"isPasswordChangeRequired"`
	OTPEnabled                    patch.Field[bool]            `json:"otpEnabled"`
	DepartmentID                  patch.Field[int64]           `json:"departmentId"`
	EmployeeID                    patch.Field[int64]           `json:"employeeId"`
}

const maxPasswordBytes = 72

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required().MaxLength(100)
	v.Field("lastName", d.LastName).Required().MaxLength(100)
	v.Field("primaryEmailAddress", d.PrimaryEmailAddress).Required().Email().MaxLength(254)
	v.Field("backupEmailAddress", d.BackupEmailAddress).Email()
	v.Field("passwordHash", d.PasswordHash).Required().MaxLength(maxPasswordBytes)
	v.Field("gender", d.Gender).OneOf(datamodel.Genders)
	v.Field("nationality", d.Nationality).OneOf(datamodel.Countries)
	return v.Validate()
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).NotNull().NotBlank().MaxLength(100)
	v.Field("lastName", d.LastName).NotNull().NotBlank().MaxLength(100)
	v.Field("primaryEmailAddress", d.PrimaryEmailAddress).NotNull().NotBlank().Email().MaxLength(254)
	v.Field("backupEmailAddress", d.BackupEmailAddress).Email()
	v.Field("passwordHash", d.PasswordHash).NotNull().MaxLength(maxPasswordBytes)
	v.Field("gender", d.Gender).OneOf(datamodel.Genders)
	v.Field("nationality", d.Nationality).OneOf(datamodel.Countries)
	for name, f := range map[string]patch.Field[bool]{
		"isActive":                      d.IsActive,
		"isSoftDeleted":                 d.IsSoftDeleted,
		"isPrimaryEmailAddressVerified": d.IsPrimaryEmailAddressVerified,
		"isBackupEmailAddressVerified":  d.IsBackupEmailAddressVerified,
		"isPasswordChangeRequired":      d.IsPasswordChangeRequired,
		"otpEnabled":                    d.OTPEnabled,
	} {
		v.Field(name, f).NotNull()
	}
	return v.Validate()
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// ToModel builds the row to insert. passwordHash is the already hashed password.
func (d CreateUserDTO) ToModel(passwordHash string) *datamodel.User {
	u := &datamodel.User{
		FirstName:                     d.FirstName,
		MiddleName:                    d.MiddleName,
		LastName:                      d.LastName,
		CommonName:                    d.CommonName,
		HomeAddress:                   d.HomeAddress,
		Gender:                        d.Gender,
		DateOfBirth:                   d.DateOfBirth.ptr(),
		Nationality:                   d.Nationality,
		State:                         d.State,
		City:                          d.City,
		County:                        d.County,
		Zip:                           d.Zip,
		IsActive:                      boolOr(d.IsActive, true),
		IsSoftDeleted:                 boolOr(d.IsSoftDeleted, false),
		PrimaryEmailAddress:           strings.TrimSpace(d.PrimaryEmailAddress),
		BackupEmailAddress:            d.BackupEmailAddress,
		Phone:                         d.Phone,
		IsPrimaryEmailAddressVerified: boolOr(d.IsPrimaryEmailAddressVerified, false),
		IsBackupEmailAddressVerified:  boolOr(d.IsBackupEmailAddressVerified, false),
		PasswordHash:                  passwordHash,
		IsPasswordChangeRequired:      boolOr(d.IsPasswordChangeRequired, false),
		OTPEnabled:                    boolOr(d.OTPEnabled, false),
		DepartmentID:                  d.DepartmentID,
		EmployeeID:                    d.EmployeeID,
	}
	if d.UserProfile != nil {
		u.UserProfile = &datamodel.UserProfile{
			Photo:         d.UserProfile.Photo,
			PhotoMimeType: d.UserProfile.PhotoMimeType,
		}
	}
	return u
}

// Updates returns the supplied fields keyed by column, nulls included. The
// password is handled by the service because it has to be hashed first.
func (d UpdateUserDTO) Updates() map[string]interface{} {
	u := make(map[string]interface{})

	patch.Put(u, "first_name", d.FirstName)
	patch.Put(u, "middle_name", d.MiddleName)
	patch.Put(u, "last_name", d.LastName)
	patch.Put(u, "common_name", d.CommonName)
	patch.Put(u, "home_address", d.HomeAddress)
	patch.Put(u, "gender", d.Gender)
	if d.DateOfBirth.Set {
		var dob interface{}
		if t := d.DateOfBirth.Ptr().ptr(); t != nil {
			dob = *t
		}
		u["date_of_birth"] = dob
	}
	patch.Put(u, "nationality", d.Nationality)
	patch.Put(u, "state", d.State)
	patch.Put(u, "city", d.City)
	patch.Put(u, "county", d.County)
	patch.Put(u, "zip", d.Zip)
	patch.Put(u, "is_active", d.IsActive)
	patch.Put(u, "is_soft_deleted", d.IsSoftDeleted)
	if email := d.PrimaryEmailAddress.Ptr(); email != nil {
		u["primary_email_address"] = strings.TrimSpace(*email)
	}
	patch.Put(u, "backup_email_address", d.BackupEmailAddress)
	patch.Put(u, "phone", d.Phone)
	patch.Put(u, "is_primary_email_address_verified", d.IsPrimaryEmailAddressVerified)
	patch.Put(u, "is_backup_email_address_verified", d.IsBackupEmailAddressVerified)
	patch.Put(u, "is_password_change_required", d.IsPasswordChangeRequired)
	patch.Put(u, "otp_enabled", d.OTPEnabled)
	patch.Put(u, "department_id", d.DepartmentID)
	patch.Put(u, "employee_id", d.EmployeeID)
	return u
}
