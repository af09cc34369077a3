package datamodel

import "time"

type User struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"column:first_name;not null" json:"firstName"`
	MiddleName  *string    `gorm:"column:middle_name" json:"middleName"`
	LastName    string     `gorm:"column:last_name;not null" json:"lastName"`
	CommonName  *string    `gorm:"column:common_name" json:"commonName"`
	HomeAddress *string    `gorm:"column:home_address" json:"homeAddress"`
	Gender      *string    `gorm:"column:gender" json:"gender"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth" json:"dateOfBirth"`
	Nationality *string    `gorm:"column:nationality" json:"nationality"`
	State       *string    `gorm:"column:state" json:"state"`
	City        *string    `gorm:"column:city" json:"city"`
	County      *string    `gorm:"column:county" json:"county"`
	Zip         *string    `gorm:"column:zip" json:"zip"`

	IsActive      bool `gorm:"column:is_active;not null" json:"isActive"`
	IsSoftDeleted bool `gorm:"column:is_soft_deleted;not null" json:"isSoftDeleted"`

	PrimaryEmailAddress           string  `gorm:"column:primary_email_address;not null;uniqueIndex" json:"primaryEmailAddress"`
	BackupEmailAddress            *string `gorm:"column:backup_email_address" json:"backupEmailAddress"`
	Phone                         *Phone  `gorm:"column:phone;type:text" json:"phone"`
	IsPrimaryEmailAddressVerified bool    `gorm:"column:is_primary_email_address_verified;not null" json:"isPrimaryEmailAddressVerified"`
	IsBackupEmailAddressVerified  bool    `gorm:"column:is_backup_email_address_verified;not null" json:"isBackupEmailAddressVerified"`

	PasswordHash                     string     `gorm:"column:password_hash;not null" json:"-"`
	IsPasswordChangeRequired         bool       `gorm:"column:is_password_change_required;not null" json:"isPasswordChangeRequired"`
	ResetPasswordToken               *string    `gorm:"column:reset_password_token;uniqueIndex" json:"-"`
	ResetPasswordExpiration          *time.Time `gorm:"column:reset_password_expiration" json:"resetPasswordExpiration"`
	PrimaryEmailVerificationToken    *string    `gorm:"column:primary_email_verification_token" json:"-"`
	BackupEmailVerificationToken     *string    `gorm:"column:backup_email_verification_token" json:"-"`
	EmailVerificationTokenExpiration *time.Time `gorm:"column:email_verification_token_expiration" json:"emailVerificationTokenExpiration"`
	OTPEnabled                       bool       `gorm:"column:otp_enabled;not null" json:"otpEnabled"`
	OTPSecret                        *string    `gorm:"column:otp_secret" json:"-"`
	RefreshTokenHash                 *string    `gorm:"column:refresh_token_hash" json:"-"`

	EmployeeID   *int64       `gorm:"column:employee_id;uniqueIndex" json:"employeeId"`
	Employee     *Employee    `gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL" json:"employee,omitempty"`
	DepartmentID *int64       `gorm:"column:department_id;index" json:"departmentId"`
	Department   *Department  `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"department,omitempty"`
	UserProfile  *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"userProfile,omitempty"`
	Roles        []Role       `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"roles,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserRole is a row of the users/roles join table. The pair is the primary key,
// so inserting an existing membership is a duplicate-key violation.
type UserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey"`
	RoleID int64 `gorm:"column:role_id;primaryKey"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
