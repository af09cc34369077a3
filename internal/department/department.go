package department

import (
	"errors"

	"github.com/frahmantamala/internship-api/internal/core/query"
)

var (
	ErrNotFound         = errors.New("department not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)

const (
	msgCreate   = "There was a problem with department creation"
	msgRead     = "There was a problem accessing department data"
	msgUpdate   = "There was a problem updating department data"
	msgDelete   = "There was a problem deleting department data"
	msgRelation = "There was a problem updating department relations"
)

var Schema = query.Schema{
	Columns: map[string]string{
		"id":          "id",
		"name":        "name",
		"description": "description",
		"location":    "location",
		"createdAt":   "created_at",
		"updatedAt":   "updated_at",
	},
	Relations: map[string]query.Relation{
		"employees": {Association: "Employees"},
		"users":     {Association: "Users"},
	},
}
