package datamodel

import "time"

type Employee struct {
	ID             int64       `gorm:"primaryKey" json:"id"`
	EmployeeNumber *string     `gorm:"column:employee_number;index" json:"employeeNumber"`
	FirstName      string      `gorm:"column:first_name;not null" json:"firstName"`
	MiddleName     *string     `gorm:"column:middle_name" json:"middleName"`
	LastName       string      `gorm:"column:last_name;not null" json:"lastName"`
	JobPosition    *string     `gorm:"column:job_position" json:"jobPosition"`
	JobTitle       *string     `gorm:"column:job_title" json:"jobTitle"`
	Photo          *string     `gorm:"column:photo" json:"photo"`
	DepartmentID   *int64      `gorm:"column:department_id;index" json:"departmentId"`
	Department     *Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"department,omitempty"`
	User           *User       `gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	CreatedAt      time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}
