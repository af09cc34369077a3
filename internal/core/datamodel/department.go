package datamodel

import "time"

type Department struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"column:name;not null" json:"name"`
	Description *string    `gorm:"column:description" json:"description"`
	Location    *string    `gorm:"column:location" json:"location"`
	Employees   []Employee `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"employees,omitempty"`
	Users       []User     `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"users,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Department) TableName() string {
	return "departments"
}
