package cache

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/internship-api/internal/core/events"
)

// Subscriber is the side of the event bus the cache listens on.
type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Invalidations maps each change event to the cached lists it makes stale.
// Deleting a parent nulls foreign keys in child tables, so parents also
// invalidate the lists that carry those keys.
var Invalidations = map[string][]string{
	events.EventTypeUserChanged:        {KeyUsers, KeyUserProfiles},
	events.EventTypeEmployeeChanged:    {KeyEmployees, KeyUsers},
	events.EventTypeDepartmentChanged:  {KeyEmployees, KeyUsers},
	events.EventTypeRoleChanged:        {KeyRoles},
	events.EventTypeUserProfileChanged: {KeyUserProfiles},
}

// SubscribeInvalidation wires store to bus so every entity change clears
// the affected cached lists before the publishing request returns.
func SubscribeInvalidation(bus Subscriber, store *Store, logger *slog.Logger) {
	for eventType, keys := range Invalidations {
		keys := keys
		bus.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			store.Invalidate(keys...)
			if logger != nil {
				logger.Debug("result cache invalidated",
					"event_type", event.EventType(),
					"event_id", event.EventID(),
					"keys", keys)
			}
			return nil
		})
	}
}
