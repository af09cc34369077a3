package role

import (
	"errors"

	"github.com/frahmantamala/internship-api/internal/core/query"
)

var ErrNotFound = errors.New("role not found")

const (
	msgCreate   = "There was a problem with role creation"
	msgRead     = "There was a problem accessing role data"
	msgUpdate   = "There was a problem updating role data"
	msgDelete   = "There was a problem deleting role data"
	msgRelation = "There was a problem updating role members"
)

var Schema = query.Schema{
	Columns: map[string]string{
		"id":             "id",
		"name":           "name",
		"description":    "description",
		"functionalArea": "functional_area",
		"createdAt":      "created_at",
		"updatedAt":      "updated_at",
	},
	Relations: map[string]query.Relation{
		"users": {Association: "Users"},
	},
}
