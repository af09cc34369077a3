package userprofile

import "github.com/frahmantamala/internship-api/internal/core/query"

const (
	msgCreate = "There was a problem with user profile creation"
	msgRead   = "There was a problem accessing user profile data"
	msgUpdate = "There was a problem updating user profile data"
	msgDelete = "There was a problem deleting user profile data"
)

var Schema = query.Schema{
	Columns: map[string]string{
		"id":            "id",
		"photo":         "photo",
		"photoMimeType": "photo_mime_type",
		"userId":        "user_id",
		"createdAt":     "created_at",
		"updatedAt":     "updated_at",
	},
	Relations: map[string]query.Relation{
		"user": {Association: "User", ForeignKey: "user_id"},
	},
}
