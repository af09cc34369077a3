package datamodel

import "time"

type UserProfile struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Photo         *string   `gorm:"column:photo" json:"photo"`
	PhotoMimeType *string   `gorm:"column:photo_mime_type" json:"photoMimeType"`
	UserID        *int64    `gorm:"column:user_id;uniqueIndex" json:"userId"`
	User          *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// All lists every model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Department{},
		&Employee{},
		&User{},
		&Role{},
		&UserProfile{},
	}
}
