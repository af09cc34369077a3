package userprofile_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/internship-api/internal/core/cache"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/events"
	"github.com/frahmantamala/internship-api/internal/core/testdb"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/frahmantamala/internship-api/internal/userprofile"
	userProfilePostgres "github.com/frahmantamala/internship-api/internal/userprofile/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("UserProfile Handler Integration", func() {
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

		repo := userProfilePostgres.NewUserProfileRepository(db)
		handler := userprofile.NewHandler(&transport.BaseHandler{Logger: slogger}, userprofile.NewService(repo, store, bus, 100, slogger))

		router = chi.NewRouter()
		router.Route("/user-profiles", handler.Routes)

		Expect(db.Create(&datamodel.User{FirstName: "F", LastName: "L", PrimaryEmailAddress: "f@x.io", PasswordHash: "x"}).Error).To(Succeed())
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

	It("clears nullable columns on PATCH with null", func() {
		w := do(http.MethodPost, "/user-profiles", `{"photo":"aGk=","photoMimeType":"image/png","userId":1}`)
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())

		w = do(http.MethodPatch, "/user-profiles/1", `{"photo":null,"userId":null}`)
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		Expect(w.Body.String()).To(MatchJSON(`{"affected":1}`))

		var p datamodel.UserProfile
		Expect(db.First(&p, 1).Error).To(Succeed())
		Expect(p.Photo).To(BeNil())
		Expect(p.UserID).To(BeNil())
		Expect(*p.PhotoMimeType).To(Equal("image/png"))
	})

	It("links a profile to a user on create", func() {
		w := do(http.MethodPost, "/user-profiles", `{"photoMimeType":"image/png","userId":1}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodGet, "/user-profiles/1?find-options="+url.QueryEscape(`{"relations":["user"]}`), "")
		var p datamodel.UserProfile
		Expect(json.Unmarshal(w.Body.Bytes(), &p)).To(Succeed())
		Expect(p.User).NotTo(BeNil())
		Expect(p.User.PrimaryEmailAddress).To(Equal("f@x.io"))
	})

	It("refuses a second profile for the same user", func() {
		Expect(do(http.MethodPost, "/user-profiles", `{"userId":1}`).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/user-profiles", `{"userId":1}`).Code).To(Equal(http.StatusBadRequest))
	})

	It("refuses an unknown user", func() {
		Expect(do(http.MethodPost, "/user-profiles", `{"userId":77}`).Code).To(Equal(http.StatusBadRequest))
	})

	It("keeps the profile when its user is deleted", func() {
		Expect(do(http.MethodPost, "/user-profiles", `{"userId":1}`).Code).To(Equal(http.StatusCreated))
		Expect(db.Delete(&datamodel.User{}, 1).Error).To(Succeed())

		var p datamodel.UserProfile
		Expect(db.First(&p, 1).Error).To(Succeed())
		Expect(p.UserID).To(BeNil())
	})

	It("lists profiles as an array and reflects updates", func() {
		Expect(do(http.MethodPost, "/user-profiles", `{"photo":"a.png"}`).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodGet, "/user-profiles", "").Body.String()).To(ContainSubstring(`"a.png"`))

		Expect(do(http.MethodPatch, "/user-profiles/1", `{"photo":"b.png"}`).Body.String()).To(MatchJSON(`{"affected":1}`))

		var profiles []datamodel.UserProfile
		Expect(json.Unmarshal(do(http.MethodGet, "/user-profiles", "").Body.Bytes(), &profiles)).To(Succeed())
		Expect(profiles).To(HaveLen(1))
		Expect(*profiles[0].Photo).To(Equal("b.png"))
	})
})
