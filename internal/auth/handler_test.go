package auth_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/internal/auth"
	authPostgres "github.com/frahmantamala/internship-api/internal/auth/postgres"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/testdb"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Auth Handler Integration", func() {
	var router chi.Router

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Create(&datamodel.User{
			FirstName: "Ada", LastName: "Lovelace", PrimaryEmailAddress: "ada@example.com",
			PasswordHash: string(hash), IsActive: true,
		}).Error).To(Succeed())

		tokenGen := auth.NewJWTTokenGenerator("access", "refresh", time.Minute, time.Hour)
		service := auth.NewService(authPostgres.NewRepository(db), tokenGen, bcrypt.MinCost, slogger)
		handler := auth.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Route("/auth", handler.Routes)
		router.With(handler.AuthMiddleware).Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(internal.UserIDFromContext(r.Context())))
		})
	})

	post := func(target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	whoami := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	login := func() auth.AuthTokens {
		w := post("/auth/login", `{"primaryEmailAddress":"ada@example.com","password":"s3cret-pass"}`)
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		var tokens auth.AuthTokens
		Expect(json.Unmarshal(w.Body.Bytes(), &tokens)).To(Succeed())
		return tokens
	}

	It("lets a logged in caller through the guard", func() {
		tokens := login()
		w := whoami(tokens.AccessToken)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("1"))
	})

	It("answers 401 for bad credentials", func() {
		w := post("/auth/login", `{"primaryEmailAddress":"ada@example.com","password":"wrong"}`)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(ContainSubstring("Invalid email or password"))
	})

	It("answers 400 for a malformed body", func() {
		Expect(post("/auth/login", `{"primaryEmailAddress":`).Code).To(Equal(http.StatusBadRequest))
		Expect(post("/auth/refresh", `{}`).Code).To(Equal(http.StatusBadRequest))
	})

	It("refreshes once per refresh token", func() {
		tokens := login()
		body := `{"refreshToken":"` + tokens.RefreshToken + `"}`
		Expect(post("/auth/refresh", body).Code).To(Equal(http.StatusOK))
		Expect(post("/auth/refresh", body).Code).To(Equal(http.StatusUnauthorized))
	})

	It("guards routes against missing and forged tokens", func() {
		Expect(whoami("").Code).To(Equal(http.StatusUnauthorized))
		Expect(whoami("not.a.jwt").Code).To(Equal(http.StatusUnauthorized))
	})
})
