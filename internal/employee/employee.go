package employee

import (
	"errors"

	"github.com/frahmantamala/internship-api/internal/core/query"
)

var (
	ErrNotFound     = errors.New("employee not found")
	ErrUserNotFound = errors.New("user not found")
)

const (
	msgCreate   = "There was a problem with employee creation"
	msgRead     = "There was a problem accessing employee data"
	msgUpdate   = "There was a problem updating employee data"
	msgDelete   = "There was a problem deleting employee data"
	msgRelation = "There was a problem updating employee relations"
)

var Schema = query.Schema{
	Columns: map[string]string{
		"id":             "id",
		"employeeNumber": "employee_number",
		"firstName":      "first_name",
		"middleName":     "middle_name",
		"lastName":       "last_name",
		"jobPosition":    "job_position",
		"jobTitle":       "job_title",
		"photo":          "photo",
		"departmentId":   "department_id",
		"createdAt":      "created_at",
		"updatedAt":      "updated_at",
	},
	Relations: map[string]query.Relation{
		"department": {Association: "Department", ForeignKey: "department_id"},
		"user":       {Association: "User"},
	},
}
