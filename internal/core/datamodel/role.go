package datamodel

import "time"

type Role struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description    *string   `gorm:"column:description" json:"description"`
	FunctionalArea *string   `gorm:"column:functional_area" json:"functionalArea"`
	Users          []User    `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"users,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Role) TableName() string {
	return "roles"
}
