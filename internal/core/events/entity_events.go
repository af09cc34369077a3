package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserChanged        = "user.changed"
	EventTypeEmployeeChanged    = "employee.changed"
	EventTypeDepartmentChanged  = "department.changed"
	EventTypeRoleChanged        = "role.changed"
	EventTypeUserProfileChanged = "user_profile.changed"
)

// EntityEventTypes lists every change event an entity service can publish.
var EntityEventTypes = []string{
	EventTypeUserChanged,
	EventTypeEmployeeChanged,
	EventTypeDepartmentChanged,
	EventTypeRoleChanged,
	EventTypeUserProfileChanged,
}

type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionRelation Action = "relation"
)

// EntityChangedEvent announces a committed write against one entity table
// or one of its relations.
type EntityChangedEvent struct {
	BaseEvent
	Action    Action  `json:"action"`
	EntityIDs []int64 `json:"entity_ids"`
}

func NewEntityChangedEvent(eventType string, action Action, ids ...int64) *EntityChangedEvent {
	return &EntityChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"action":     string(action),
				"entity_ids": ids,
			},
		},
		Action:    action,
		EntityIDs: ids,
	}
}

// Notify publishes an entity change synchronously. The write it describes has
// already committed, so a failing handler is logged and not returned.
func Notify(ctx context.Context, pub Publisher, logger *slog.Logger, eventType string, action Action, ids ...int64) {
	if pub == nil {
		return
	}
	if err := pub.PublishSync(ctx, NewEntityChangedEvent(eventType, action, ids...)); err != nil && logger != nil {
		logger.Warn("entity change handlers failed",
			"event_type", eventType,
			"action", string(action),
			"entity_ids", ids,
			"error", err)
	}
}
