package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const minimalConfig = `
env: test
http_server:
  port: 8081
  api_prefix: /api
  read_header_timeout: 2s
  read_timeout: 10s
database:
  source: postgres://localhost/internship_test
  max_open_conns: 4
  max_idle_conns: 2
security:
  bcrypt_cost: 4
cache:
  ttl: 30s
`

// setenv sets key until the current test finishes.
func setenv(key, value string) {
	prev, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		// keep the container path out of these tests
		setenv("APP_ENV", "test")
		setenv("DOCKER_ENV", "false")
	})

	writeFile := func(name, body string) {
		Expect(os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600)).To(Succeed())
	}

	It("reads config.yml and fills defaults", func() {
		writeFile("config.yml", minimalConfig)

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(8081))
		Expect(cfg.Server.APIPrefix).To(Equal("/api"))
		Expect(cfg.Cache.TTL).To(Equal(30 * time.Second))
		Expect(cfg.Security.BCryptCost).To(Equal(4))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(15 * time.Minute))
		Expect(cfg.Query.MaxTake).To(Equal(100))
		Expect(cfg.Observability.Logging.Format).To(Equal("text"))
	})

	It("lets ENV_ variables override file values", func() {
		writeFile("config.yml", minimalConfig)
		setenv("ENV_HTTP_SERVER_PORT", "9090")

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
	})

	It("loads a .env file next to the config", func() {
		writeFile("config.yml", minimalConfig)
		writeFile(".env", "ENV_CACHE_TTL=45s\n")
		DeferCleanup(os.Unsetenv, "ENV_CACHE_TTL")

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Cache.TTL).To(Equal(45 * time.Second))
	})

	It("fails when config.yml is missing", func() {
		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("error reading config")))
	})

	It("rejects a config without a database source", func() {
		writeFile("config.yml", "env: test\n")
		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("database config: source is required")))
	})

	It("reads everything from the environment in production", func() {
		setenv("APP_ENV", "production")
		setenv("DATABASE_URL", "postgres://db/internship")
		setenv("PORT", "7070")

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Env).To(Equal("production"))
		Expect(cfg.Server.Port).To(Equal(7070))
		Expect(cfg.Database.Source).To(Equal("postgres://db/internship"))
	})
})

var _ = Describe("event publish", func() {
	It("rejects an unknown event type", func() {
		err := publishTestEvent(context.Background(), "invoice.changed")
		Expect(err).To(MatchError(ContainSubstring("unknown event type")))
	})

	It("publishes an entity change event", func() {
		eventAction = "deleted"
		eventIDs = []int64{1, 2}
		DeferCleanup(func() {
			eventAction = "updated"
			eventIDs = nil
		})

		Expect(publishTestEvent(context.Background(), "role.changed")).To(Succeed())
	})
})
