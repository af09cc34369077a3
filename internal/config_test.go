package internal_test

import (
	"time"

	"github.com/frahmantamala/internship-api/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var cfg internal.Config

	BeforeEach(func() {
		cfg = internal.Config{
			Database: internal.DatabaseConfig{Source: "postgres://localhost/db", MaxOpenConns: 10, MaxIdleConns: 2},
		}
		cfg.ApplyDefaults()
	})

	It("fills defaults", func() {
		Expect(cfg.Server.Port).To(Equal(3000))
		Expect(cfg.Cache.TTL).To(Equal(10 * time.Second))
		Expect(cfg.Security.BCryptCost).To(Equal(10))
		Expect(cfg.Security.RefreshTokenDuration).To(Equal(7 * 24 * time.Hour))
		Expect(cfg.Server.MaxBodyBytes).To(Equal(int64(8 << 20)))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("keeps explicit values", func() {
		cfg.Query.MaxTake = 5
		cfg.ApplyDefaults()
		Expect(cfg.Query.MaxTake).To(Equal(5))
	})

	DescribeTable("rejects invalid settings",
		func(mutate func(*internal.Config), msg string) {
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(msg)))
		},
		Entry("missing source", func(c *internal.Config) { c.Database.Source = "" }, "source is required"),
		Entry("idle above open", func(c *internal.Config) { c.Database.MaxIdleConns = 20 }, "max_idle_conns"),
		Entry("prefix without slash", func(c *internal.Config) { c.Server.APIPrefix = "api" }, "api_prefix must start with /"),
		Entry("bcrypt cost", func(c *internal.Config) { c.Security.BCryptCost = 2 }, "bcrypt_cost 2 out of range"),
		Entry("auth without secrets", func(c *internal.Config) { c.Security.RequireAuth = true }, "jwt secrets are required"),
		Entry("log format", func(c *internal.Config) { c.Observability.Logging.Format = "xml" }, `unknown format "xml"`),
		Entry("negative body cap", func(c *internal.Config) { c.Server.MaxBodyBytes = -1 }, "max_body_bytes must not be negative"),
		Entry("negative max take", func(c *internal.Config) { c.Query.MaxTake = -1 }, "max_take cannot be negative"),
	)
})
