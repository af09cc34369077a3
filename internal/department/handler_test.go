package department_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/events"
	"github.com/frahmantamala/internship-api/internal/core/testdb"
	"github.com/frahmantamala/internship-api/internal/department"
	departmentPostgres "github.com/frahmantamala/internship-api/internal/department/postgres"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Department Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		repo := departmentPostgres.NewDepartmentRepository(db)
		service := department.NewService(repo, events.NewEventBus(slogger), 100, slogger)
		handler := department.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Route("/departments", handler.Routes)
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

	createDepartment := func(name string) int64 {
		w := do(http.MethodPost, "/departments", `{"name":"`+name+`","location":"Germany"}`)
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())
		var d datamodel.Department
		Expect(json.Unmarshal(w.Body.Bytes(), &d)).To(Succeed())
		return d.ID
	}

	departmentOf := func(employeeID int64) *int64 {
		var e datamodel.Employee
		Expect(db.First(&e, employeeID).Error).To(Succeed())
		return e.DepartmentID
	}

	It("clears nullable columns on PATCH with null", func() {
		id := createDepartment("Research")
		Expect(db.Model(&datamodel.Department{}).Where("id = ?", id).Update("description", "labs").Error).To(Succeed())

		path := "/departments/" + strconv.FormatInt(id, 10)
		w := do(http.MethodPatch, path, `{"location":null,"description":null}`)
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		Expect(w.Body.String()).To(MatchJSON(`{"affected":1}`))

		var d datamodel.Department
		Expect(db.First(&d, id).Error).To(Succeed())
		Expect(d.Location).To(BeNil())
		Expect(d.Description).To(BeNil())

		Expect(do(http.MethodPatch, path, `{"name":null}`).Code).To(Equal(http.StatusBadRequest))
	})

	It("lists departments as a plain array", func() {
		createDepartment("Engineering")
		createDepartment("Sales")

		w := do(http.MethodGet, "/departments?find-options="+url.QueryEscape(`{"order":{"name":"DESC"}}`), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var departments []datamodel.Department
		Expect(json.Unmarshal(w.Body.Bytes(), &departments)).To(Succeed())
		Expect(departments).To(HaveLen(2))
		Expect(departments[0].Name).To(Equal("Sales"))
	})

	It("answers 400 for a missing name", func() {
		w := do(http.MethodPost, "/departments", `{"description":"nameless"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns null for an unknown department", func() {
		w := do(http.MethodGet, "/departments/7", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(strings.TrimSpace(w.Body.String())).To(Equal("null"))
	})

	It("patches and reports the affected count", func() {
		id := createDepartment("Engineering")
		w := do(http.MethodPatch, "/departments/"+strconv.FormatInt(id, 10), `{"description":"Builds things"}`)
		Expect(w.Body.String()).To(MatchJSON(`{"affected":1}`))
	})

	Describe("employees", func() {
		var deptPath string

		BeforeEach(func() {
			deptPath = "/departments/" + strconv.FormatInt(createDepartment("Engineering"), 10)
			Expect(db.Create(&datamodel.Employee{FirstName: "Ada", LastName: "Lovelace"}).Error).To(Succeed())
			Expect(db.Create(&datamodel.Employee{FirstName: "Alan", LastName: "Turing"}).Error).To(Succeed())
		})

		It("adds one employee by path", func() {
			Expect(do(http.MethodPatch, deptPath+"/employees/1", "").Code).To(Equal(http.StatusNoContent))
			Expect(departmentOf(1)).To(HaveValue(Equal(int64(1))))
			Expect(departmentOf(2)).To(BeNil())
		})

		It("adds and removes several employees by query", func() {
			Expect(do(http.MethodPatch, deptPath+"/employees?employeeid=1&employeeid=2", "").Code).To(Equal(http.StatusNoContent))

			w := do(http.MethodGet, deptPath+"?find-options="+url.QueryEscape(`{"relations":["employees"]}`), "")
			var d datamodel.Department
			Expect(json.Unmarshal(w.Body.Bytes(), &d)).To(Succeed())
			Expect(d.Employees).To(HaveLen(2))

			Expect(do(http.MethodDelete, deptPath+"/employees?employeeid=1&employeeid=2", "").Code).To(Equal(http.StatusNoContent))
			Expect(departmentOf(1)).To(BeNil())
			Expect(departmentOf(2)).To(BeNil())
		})

		It("answers 404 and changes nothing when one employee is missing", func() {
			Expect(do(http.MethodPatch, deptPath+"/employees?employeeid=1&employeeid=42", "").Code).To(Equal(http.StatusNotFound))
			Expect(departmentOf(1)).To(BeNil())
		})

		It("answers 404 for an unknown department", func() {
			Expect(do(http.MethodPatch, "/departments/9/employees/1", "").Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodDelete, "/departments/9/employees/1", "").Code).To(Equal(http.StatusNotFound))
			Expect(departmentOf(1)).To(BeNil())
		})

		It("requires at least one employeeid", func() {
			Expect(do(http.MethodPatch, deptPath+"/employees", "").Code).To(Equal(http.StatusBadRequest))
		})

		It("detaches employees when the department is deleted", func() {
			Expect(do(http.MethodPatch, deptPath+"/employees/1", "").Code).To(Equal(http.StatusNoContent))
			Expect(do(http.MethodDelete, deptPath, "").Body.String()).To(MatchJSON(`{"affected":1}`))
			Expect(departmentOf(1)).To(BeNil())
		})
	})
})
