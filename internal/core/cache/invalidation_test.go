package cache_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/internship-api/internal/core/cache"
	"github.com/frahmantamala/internship-api/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SubscribeInvalidation", func() {
	var (
		store *cache.Store
		bus   *events.EventBus
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store = cache.New(time.Minute)
		bus = events.NewEventBus(logger)
		cache.SubscribeInvalidation(bus, store, logger)

		for _, k := range []string{cache.KeyUsers, cache.KeyEmployees, cache.KeyRoles, cache.KeyUserProfiles} {
			store.Set(k, true)
		}
	})

	cached := func(key string) bool {
		_, ok := store.Get(key)
		return ok
	}

	It("subscribes to every entity event", func() {
		for _, t := range events.EntityEventTypes {
			Expect(bus.HandlerCount(t)).To(Equal(1), t)
		}
	})

	It("clears the user and profile lists on a user change", func() {
		Expect(bus.PublishSync(context.Background(), events.NewEntityChangedEvent(events.EventTypeUserChanged, events.ActionUpdated, 1))).To(Succeed())
		Expect(cached(cache.KeyUsers)).To(BeFalse())
		Expect(cached(cache.KeyUserProfiles)).To(BeFalse())
		Expect(cached(cache.KeyRoles)).To(BeTrue())
		Expect(cached(cache.KeyEmployees)).To(BeTrue())
	})

	It("clears child lists when a department changes", func() {
		Expect(bus.PublishSync(context.Background(), events.NewEntityChangedEvent(events.EventTypeDepartmentChanged, events.ActionDeleted, 1))).To(Succeed())
		Expect(cached(cache.KeyEmployees)).To(BeFalse())
		Expect(cached(cache.KeyUsers)).To(BeFalse())
		Expect(cached(cache.KeyRoles)).To(BeTrue())
	})
})
