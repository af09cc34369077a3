package employee_test

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
	"github.com/frahmantamala/internship-api/internal/employee"
	employeePostgres "github.com/frahmantamala/internship-api/internal/employee/postgres"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Employee Handler Integration", func() {
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

		service := employee.NewService(employeePostgres.NewEmployeeRepository(db), store, bus, 100, slogger)
		handler := employee.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Route("/employees", handler.Routes)

		Expect(db.Create(&datamodel.Department{Name: "Research"}).Error).To(Succeed())
		Expect(db.Create(&datamodel.User{FirstName: "U", LastName: "One", PrimaryEmailAddress: "u1@x.io", PasswordHash: "x"}).Error).To(Succeed())
		Expect(db.Create(&datamodel.User{FirstName: "U", LastName: "Two", PrimaryEmailAddress: "u2@x.io", PasswordHash: "x"}).Error).To(Succeed())
	})

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	userEmployee := func(userID int64) *int64 {
		var u datamodel.User
		Expect(db.First(&u, userID).Error).To(Succeed())
		return u.EmployeeID
	}

	It("clears nullable columns on PATCH with null", func() {
		w := do(http.MethodPost, "/employees", `{"firstName":"Ada","lastName":"King","jobTitle":"Analyst","departmentId":1}`)
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())

		w = do(http.MethodPatch, "/employees/1", `{"jobTitle":null,"departmentId":null}`)
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		Expect(w.Body.String()).To(MatchJSON(`{"affected":1}`))

		var e datamodel.Employee
		Expect(db.First(&e, 1).Error).To(Succeed())
		Expect(e.JobTitle).To(BeNil())
		Expect(e.DepartmentID).To(BeNil())
		Expect(e.FirstName).To(Equal("Ada"))
	})

	It("creates and lists employees", func() {
		w := do(http.MethodPost, "/employees", `{"firstName":"Katherine","lastName":"Johnson","employeeNumber":"E-1","departmentId":1}`)
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())

		w = do(http.MethodGet, "/employees", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var page []json.RawMessage
		Expect(json.Unmarshal(w.Body.Bytes(), &page)).To(Succeed())
		Expect(string(page[1])).To(Equal("1"))
	})

	It("answers 400 when the department does not exist", func() {
		w := do(http.MethodPost, "/employees", `{"firstName":"K","lastName":"J","departmentId":42}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("preloads the department", func() {
		do(http.MethodPost, "/employees", `{"firstName":"K","lastName":"J","departmentId":1}`)

		w := do(http.MethodGet, "/employees/1?find-options="+url.QueryEscape(`{"relations":["department"]}`), "")
		var e datamodel.Employee
		Expect(json.Unmarshal(w.Body.Bytes(), &e)).To(Succeed())
		Expect(e.Department).NotTo(BeNil())
		Expect(e.Department.Name).To(Equal("Research"))
	})

	It("sets and clears the department", func() {
		do(http.MethodPost, "/employees", `{"firstName":"K","lastName":"J"}`)
		Expect(do(http.MethodPatch, "/employees/1/departments/1", "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodDelete, "/employees/1/department", "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodPatch, "/employees/9/departments/1", "").Code).To(Equal(http.StatusNotFound))
	})

	It("moves the user link from one user to another", func() {
		do(http.MethodPost, "/employees", `{"firstName":"K","lastName":"J"}`)

		Expect(do(http.MethodPatch, "/employees/1/users/1", "").Code).To(Equal(http.StatusNoContent))
		Expect(userEmployee(1)).To(HaveValue(Equal(int64(1))))

		Expect(do(http.MethodPatch, "/employees/1/users/2", "").Code).To(Equal(http.StatusNoContent))
		Expect(userEmployee(1)).To(BeNil())
		Expect(userEmployee(2)).To(HaveValue(Equal(int64(1))))

		Expect(do(http.MethodDelete, "/employees/1/users", "").Code).To(Equal(http.StatusNoContent))
		Expect(userEmployee(2)).To(BeNil())
	})

	It("answers 404 for unknown employees and users", func() {
		do(http.MethodPost, "/employees", `{"firstName":"K","lastName":"J"}`)
		Expect(do(http.MethodPatch, "/employees/7/users/1", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodPatch, "/employees/1/users/7", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, "/employees/7/users", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, "/employees/7/department", "").Code).To(Equal(http.StatusNotFound))
	})

	It("keeps the user when the employee is deleted", func() {
		do(http.MethodPost, "/employees", `{"firstName":"K","lastName":"J"}`)
		do(http.MethodPatch, "/employees/1/users/1", "")

		Expect(do(http.MethodDelete, "/employees/1", "").Body.String()).To(MatchJSON(`{"affected":1}`))
		Expect(userEmployee(1)).To(BeNil())
	})
})
