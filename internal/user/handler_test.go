package user_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/internship-api/internal/core/cache"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/events"
	"github.com/frahmantamala/internship-api/internal/core/testdb"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/frahmantamala/internship-api/internal/user"
	userPostgres "github.com/frahmantamala/internship-api/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var _ = Describe("User Handler Integration", func() {
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

		repo := userPostgres.NewUserRepository(db)
		service := user.NewService(repo, store, bus, user.Config{MaxTake: 100, BCryptCost: bcrypt.MinCost}, slogger)
		handler := user.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Route("/users", handler.Routes)
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

	createUser := func(email string) int64 {
		w := do(http.MethodPost, "/users", `{"firstName":"Grace","lastName":"Hopper","primaryEmailAddress":"`+email+`","passwordHash":"pw-123456"}`)
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())
		var u map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &u)).To(Succeed())
		return int64(u["id"].(float64))
	}

	errorBody := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	It("clears nullable columns on PATCH with null", func() {
		w := do(http.MethodPost, "/users", `{"firstName":"Grace","middleName":"B","lastName":"Hopper","city":"Paris","primaryEmailAddress":"g@x.io","passwordHash":"pw-123456"}`)
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())

		w = do(http.MethodPatch, "/users/1", `{"city":null,"middleName":null}`)
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		Expect(w.Body.String()).To(MatchJSON(`{"affected":1}`))

		var u datamodel.User
		Expect(db.First(&u, 1).Error).To(Succeed())
		Expect(u.City).To(BeNil())
		Expect(u.MiddleName).To(BeNil())
		Expect(u.LastName).To(Equal("Hopper"))
	})

	It("refuses null for a required column", func() {
		createUser("g@x.io")
		w := do(http.MethodPatch, "/users/1", `{"firstName":null}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("firstName cannot be null"))
	})

	It("creates a user without echoing secrets", func() {
		w := do(http.MethodPost, "/users", `{"firstName":"Grace","lastName":"Hopper","primaryEmailAddress":"grace@example.com","passwordHash":"pw-123456","userProfile":{"photoMimeType":"image/png"}}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).NotTo(ContainSubstring("pw-123456"))
		Expect(w.Body.String()).NotTo(ContainSubstring("passwordHash"))

		var profile datamodel.UserProfile
		Expect(db.First(&profile).Error).To(Succeed())
		Expect(profile.UserID).NotTo(BeNil())
		Expect(*profile.PhotoMimeType).To(Equal("image/png"))
	})

	It("answers 400 for a duplicate email", func() {
		createUser("dup@example.com")
		w := do(http.MethodPost, "/users", `{"firstName":"G","lastName":"H","primaryEmailAddress":"dup@example.com","passwordHash":"pw"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		body := errorBody(w)
		Expect(body["status"]).To(BeEquivalentTo(400))
		Expect(body["error"]).To(HavePrefix("There was a problem with user creation"))
	})

	It("lists users as [items, count]", func() {
		createUser("a@example.com")
		createUser("b@example.com")

		w := do(http.MethodGet, "/users", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var page []json.RawMessage
		Expect(json.Unmarshal(w.Body.Bytes(), &page)).To(Succeed())
		Expect(page).To(HaveLen(2))
		Expect(string(page[1])).To(Equal("2"))
	})

	It("filters with find-options", func() {
		createUser("a@example.com")
		createUser("b@example.com")

		opts := url.QueryEscape(`{"where":{"primaryEmailAddress":"b@example.com"},"select":["primaryEmailAddress"]}`)
		w := do(http.MethodGet, "/users?find-options="+opts, "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var page []json.RawMessage
		Expect(json.Unmarshal(w.Body.Bytes(), &page)).To(Succeed())
		var users []datamodel.User
		Expect(json.Unmarshal(page[0], &users)).To(Succeed())
		Expect(users).To(HaveLen(1))
		Expect(users[0].PrimaryEmailAddress).To(Equal("b@example.com"))
		Expect(users[0].FirstName).To(BeEmpty())
	})

	It("rejects malformed find-options", func() {
		w := do(http.MethodGet, "/users?find-options="+url.QueryEscape(`{"where":`), "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns null for an unknown user", func() {
		w := do(http.MethodGet, "/users/404", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(strings.TrimSpace(w.Body.String())).To(Equal("null"))
	})

	It("rejects a non-numeric id", func() {
		w := do(http.MethodGet, "/users/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("patches only the supplied fields", func() {
		id := createUser("patch@example.com")
		w := do(http.MethodPatch, "/users/"+itoa(id), `{"city":"Arlington"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"affected":1}`))

		var u datamodel.User
		Expect(db.First(&u, id).Error).To(Succeed())
		Expect(*u.City).To(Equal("Arlington"))
		Expect(u.FirstName).To(Equal("Grace"))
	})

	It("deletes and reports the affected count", func() {
		id := createUser("gone@example.com")
		Expect(do(http.MethodDelete, "/users/"+itoa(id), "").Body.String()).To(MatchJSON(`{"affected":1}`))
		Expect(do(http.MethodDelete, "/users/"+itoa(id), "").Body.String()).To(MatchJSON(`{"affected":0}`))
	})

	Describe("relations", func() {
		var userID int64

		BeforeEach(func() {
			userID = createUser("rel@example.com")
			Expect(db.Create(&datamodel.Role{Name: "admin"}).Error).To(Succeed())
			Expect(db.Create(&datamodel.Role{Name: "viewer"}).Error).To(Succeed())
			Expect(db.Create(&datamodel.Department{Name: "Engineering"}).Error).To(Succeed())
		})

		It("adds a role once and refuses the duplicate", func() {
			Expect(do(http.MethodPatch, "/users/"+itoa(userID)+"/roles/1", "").Code).To(Equal(http.StatusNoContent))
			Expect(do(http.MethodPatch, "/users/"+itoa(userID)+"/roles/1", "").Code).To(Equal(http.StatusBadRequest))
		})

		It("adds and removes several roles", func() {
			Expect(do(http.MethodPatch, "/users/"+itoa(userID)+"/roles?roleid=1&roleid=2", "").Code).To(Equal(http.StatusNoContent))

			var count int64
			db.Model(&datamodel.UserRole{}).Where("user_id = ?", userID).Count(&count)
			Expect(count).To(Equal(int64(2)))

			Expect(do(http.MethodDelete, "/users/"+itoa(userID)+"/roles?roleid=1&roleid=2", "").Code).To(Equal(http.StatusNoContent))
			db.Model(&datamodel.UserRole{}).Where("user_id = ?", userID).Count(&count)
			Expect(count).To(BeZero())
		})

		It("refuses a role that does not exist", func() {
			Expect(do(http.MethodPatch, "/users/"+itoa(userID)+"/roles/99", "").Code).To(Equal(http.StatusBadRequest))
		})

		It("sets and unsets the department", func() {
			Expect(do(http.MethodPatch, "/users/"+itoa(userID)+"/departments/1", "").Code).To(Equal(http.StatusNoContent))
			var before datamodel.User
			Expect(db.First(&before, userID).Error).To(Succeed())
			Expect(before.DepartmentID).To(HaveValue(Equal(int64(1))))

			Expect(do(http.MethodDelete, "/users/"+itoa(userID)+"/departments", "").Code).To(Equal(http.StatusNoContent))
			var after datamodel.User
			Expect(db.First(&after, userID).Error).To(Succeed())
			Expect(after.DepartmentID).To(BeNil())
		})

		It("answers 404 for an unknown user and 400 for an unknown department", func() {
			Expect(do(http.MethodPatch, "/users/999/departments/1", "").Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodPatch, "/users/"+itoa(userID)+"/departments/999", "").Code).To(Equal(http.StatusBadRequest))
		})

		It("answers 404 on every relation of an unknown user", func() {
			Expect(db.Create(&datamodel.UserProfile{}).Error).To(Succeed())
			for _, req := range [][2]string{
				{http.MethodPatch, "/users/999/roles/1"},
				{http.MethodDelete, "/users/999/roles?roleid=1"},
				{http.MethodPatch, "/users/999/user-profiles/1"},
				{http.MethodDelete, "/users/999/user-profiles"},
				{http.MethodDelete, "/users/999/departments"},
				{http.MethodDelete, "/users/999/employees"},
			} {
				Expect(do(req[0], req[1], "").Code).To(Equal(http.StatusNotFound), req[0]+" "+req[1])
			}
		})

		It("moves the profile link", func() {
			first := datamodel.UserProfile{UserID: &userID}
			second := datamodel.UserProfile{}
			Expect(db.Create(&first).Error).To(Succeed())
			Expect(db.Create(&second).Error).To(Succeed())

			Expect(do(http.MethodPatch, "/users/"+itoa(userID)+"/user-profiles/"+itoa(second.ID), "").Code).To(Equal(http.StatusNoContent))
			Expect(ownerOf(db, first.ID)).To(BeNil())
			Expect(ownerOf(db, second.ID)).To(HaveValue(Equal(userID)))

			Expect(do(http.MethodDelete, "/users/"+itoa(userID)+"/user-profiles", "").Code).To(Equal(http.StatusNoContent))
			Expect(ownerOf(db, second.ID)).To(BeNil())
		})

		It("links an employee and preloads it", func() {
			Expect(db.Create(&datamodel.Employee{FirstName: "Alan", LastName: "Turing"}).Error).To(Succeed())
			Expect(do(http.MethodPatch, "/users/"+itoa(userID)+"/employees/1", "").Code).To(Equal(http.StatusNoContent))

			w := do(http.MethodGet, "/users/"+itoa(userID)+"?find-options="+url.QueryEscape(`{"relations":["employee"]}`), "")
			var u datamodel.User
			Expect(json.Unmarshal(w.Body.Bytes(), &u)).To(Succeed())
			Expect(u.Employee).NotTo(BeNil())
			Expect(u.Employee.FirstName).To(Equal("Alan"))

			Expect(do(http.MethodDelete, "/users/"+itoa(userID)+"/employees", "").Code).To(Equal(http.StatusNoContent))
		})
	})
})

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func ownerOf(db *gorm.DB, profileID int64) *int64 {
	var p datamodel.UserProfile
	Expect(db.First(&p, profileID).Error).To(Succeed())
	return p.UserID
}
