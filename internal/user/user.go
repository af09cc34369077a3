package user

import (
	"errors"

	"github.com/frahmantamala/internship-api/internal/core/query"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrProfileNotFound = errors.New("user profile not found")
)

const (
	msgCreate   = "There was a problem with user creation"
	msgRead     = "There was a problem accessing user data"
	msgUpdate   = "There was a problem updating user data"
	msgDelete   = "There was a problem deleting user data"
	msgRelation = "There was a problem updating user relations"
)

// Schema is what find-options may reference on /users. Secrets and tokens are
// never filterable or selectable.
var Schema = query.Schema{
	Columns: map[string]string{
		"id":                            "id",
		"firstName":                     "first_name",
		"middleName":                    "middle_name",
		"lastName":                      "last_name",
		"commonName":                    "common_name",
		"homeAddress":                   "home_address",
		"gender":                        "gender",
		"dateOfBirth":                   "date_of_birth",
		"nationality":                   "nationality",
		"state":                         "state",
		"city":                          "city",
		"county":                        "county",
		"zip":                           "zip",
		"isActive":                      "is_active",
		"isSoftDeleted":                 "is_soft_deleted",
		"primaryEmailAddress":           "primary_email_address",
		"backupEmailAddress":            "backup_email_address",
		"phone":                         "phone",
		"isPrimaryEmailAddressVerified": "is_primary_email_address_verified",
		"isBackupEmailAddressVerified":  "is_backup_email_address_verified",
		"isPasswordChangeRequired":      "is_password_change_required",
		"otpEnabled":                    "otp_enabled",
		"departmentId":                  "department_id",
		"employeeId":                    "employee_id",
		"createdAt":                     "created_at",
		"updatedAt":                     "updated_at",
	},
	Relations: map[string]query.Relation{
		"roles":       {Association: "Roles"},
		"department":  {Association: "Department", ForeignKey: "department_id"},
		"employee":    {Association: "Employee", ForeignKey: "employee_id"},
		"userProfile": {Association: "UserProfile"},
	},
}
