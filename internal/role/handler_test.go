package role_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/internship-api/internal/core/cache"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/events"
	"github.com/frahmantamala/internship-api/internal/core/testdb"
	"github.com/frahmantamala/internship-api/internal/role"
	rolePostgres "github.com/frahmantamala/internship-api/internal/role/postgres"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Role Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		store := cache.New(time.Minute)
		bus := events.NewEventBus(slogger)
		cache.SubscribeInvalidation(bus, store, slogger)

		service := role.NewService(rolePostgres.NewRoleRepository(db), store, bus, 100, slogger)
		handler := role.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Route("/roles", handler.Routes)
	})

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	memberCount := func() int64 {
		var count int64
		Expect(db.Model(&datamodel.UserRole{}).Count(&count).Error).To(Succeed())
		return count
	}

	It("clears nullable columns on PATCH with null", func() {
		w := do(http.MethodPost, "/roles", `{"name":"mentor","description":"guides","functionalArea":"Others"}`)
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())

		w = do(http.MethodPatch, "/roles/1", `{"functionalArea":null,"description":null}`)
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		Expect(w.Body.String()).To(MatchJSON(`{"affected":1}`))

		var r datamodel.Role
		Expect(db.First(&r, 1).Error).To(Succeed())
		Expect(r.FunctionalArea).To(BeNil())
		Expect(r.Description).To(BeNil())
		Expect(r.Name).To(Equal("mentor"))
	})

	It("answers 400 for a duplicate role name", func() {
		Expect(do(http.MethodPost, "/roles", `{"name":"admin"}`).Code).To(Equal(http.StatusCreated))
		w := do(http.MethodPost, "/roles", `{"name":"admin"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("There was a problem with role creation"))
	})

	It("serves the cached list and refreshes it after a write", func() {
		Expect(do(http.MethodPost, "/roles", `{"name":"admin"}`).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodGet, "/roles", "").Body.String()).To(ContainSubstring(`"admin"`))

		Expect(do(http.MethodPatch, "/roles/1", `{"name":"owner"}`).Body.String()).To(MatchJSON(`{"affected":1}`))

		var roles []datamodel.Role
		Expect(json.Unmarshal(do(http.MethodGet, "/roles", "").Body.Bytes(), &roles)).To(Succeed())
		Expect(roles).To(HaveLen(1))
		Expect(roles[0].Name).To(Equal("owner"))
	})

	Describe("users", func() {
		BeforeEach(func() {
			Expect(do(http.MethodPost, "/roles", `{"name":"admin"}`).Code).To(Equal(http.StatusCreated))
			for _, email := range []string{"a@x.io", "b@x.io"} {
				Expect(db.Create(&datamodel.User{FirstName: "F", LastName: "L", PrimaryEmailAddress: email, PasswordHash: "x"}).Error).To(Succeed())
			}
		})

		It("adds one user and refuses the same user twice", func() {
			Expect(do(http.MethodPatch, "/roles/1/users/1", "").Code).To(Equal(http.StatusNoContent))
			Expect(do(http.MethodPatch, "/roles/1/users/1", "").Code).To(Equal(http.StatusBadRequest))
			Expect(memberCount()).To(Equal(int64(1)))
		})

		It("adds and removes several users", func() {
			Expect(do(http.MethodPatch, "/roles/1/users?userid=1&userid=2", "").Code).To(Equal(http.StatusNoContent))
			Expect(memberCount()).To(Equal(int64(2)))

			Expect(do(http.MethodDelete, "/roles/1/users/2", "").Code).To(Equal(http.StatusNoContent))
			Expect(memberCount()).To(Equal(int64(1)))

			Expect(do(http.MethodDelete, "/roles/1/users?userid=1&userid=2", "").Code).To(Equal(http.StatusNoContent))
			Expect(memberCount()).To(BeZero())
		})

		It("answers 404 for members of an unknown role", func() {
			Expect(do(http.MethodPatch, "/roles/9/users/1", "").Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodDelete, "/roles/9/users/1", "").Code).To(Equal(http.StatusNotFound))
			Expect(memberCount()).To(BeZero())
		})

		It("drops memberships with the role", func() {
			Expect(do(http.MethodPatch, "/roles/1/users/1", "").Code).To(Equal(http.StatusNoContent))
			Expect(do(http.MethodDelete, "/roles/1", "").Body.String()).To(MatchJSON(`{"affected":1}`))
			Expect(memberCount()).To(BeZero())
		})
	})
})
