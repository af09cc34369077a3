package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/frahmantamala/internship-api/internal/core/cache"
	"github.com/frahmantamala/internship-api/internal/core/events"
	"github.com/frahmantamala/internship-api/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the entity change events and the cache invalidation they trigger`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a test entity change event",
	Long:      `Publish an entity change event on an in-process bus wired to the result cache, and report which cached lists it clears`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: events.EntityEventTypes,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var listEventCmd = &cobra.Command{
	Use:   "list",
	Short: "List entity change events and the cached lists each invalidates",
	Run: func(cmd *cobra.Command, args []string) {
		for _, eventType := range events.EntityEventTypes {
			fmt.Printf("%-22s %v\n", eventType, cache.Invalidations[eventType])
		}
	},
}

var (
	eventAction string
	eventIDs    []int64
)

func publishTestEvent(ctx context.Context, eventType string) error {
	if !slices.Contains(events.EntityEventTypes, eventType) {
		return fmt.Errorf("unknown event type %q, expected one of %v", eventType, events.EntityEventTypes)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	store := cache.New(time.Minute)
	for _, key := range []string{cache.KeyUsers, cache.KeyEmployees, cache.KeyRoles, cache.KeyUserProfiles} {
		store.Set(key, struct{}{})
	}
	cache.SubscribeInvalidation(bus, store, lg)

	bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		lg.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	before := store.Len()
	event := events.NewEntityChangedEvent(eventType, events.Action(eventAction), eventIDs...)
	lg.Info("publishing test event", "event_type", eventType, "event_id", event.EventID(), "handlers", bus.HandlerCount(eventType))

	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	lg.Info("test event published successfully", "cache_entries_cleared", before-store.Len())
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventAction, "action", string(events.ActionUpdated), "change action: created, updated, deleted or relation")
	publishEventCmd.Flags().Int64SliceVar(&eventIDs, "id", nil, "entity ids carried by the event")

	eventCmd.AddCommand(publishEventCmd)
	eventCmd.AddCommand(listEventCmd)

	rootCmd.AddCommand(eventCmd)
}
