package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/internship-api/api"
	"github.com/frahmantamala/internship-api/internal/auth"
	"github.com/frahmantamala/internship-api/internal/department"
	"github.com/frahmantamala/internship-api/internal/employee"
	"github.com/frahmantamala/internship-api/internal/role"
	"github.com/frahmantamala/internship-api/internal/transport/middleware"
	"github.com/frahmantamala/internship-api/internal/transport/swagger"
	"github.com/frahmantamala/internship-api/internal/user"
	"github.com/frahmantamala/internship-api/internal/userprofile"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the resource handlers mounted by RegisterAllRoutes.
// A nil handler leaves its routes unmounted.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Employee    *employee.Handler
	Department  *department.Handler
	Role        *role.Handler
	UserProfile *userprofile.Handler
}

type Options struct {
	APIPrefix      string
	AllowedOrigins string
	RequireAuth    bool
	MaxBodyBytes   int64
}

func RegisterAllRoutes(router chi.Router, opts Options, handlers Handlers, health *HealthHandler, logger *slog.Logger) {
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.BodyLimit(opts.MaxBodyBytes))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Document)
	})
	router.Handle("/swagger/*", swagger.Handler())

	mount := func(r chi.Router) {
		if health != nil {
			r.Get("/health", health.healthCheckHandler)
			r.Get("/ping", health.pingHandler)
		}

		if handlers.Auth != nil {
			r.Route("/auth", handlers.Auth.Routes)
		}

		r.Group(func(pr chi.Router) {
			if opts.RequireAuth && handlers.Auth != nil {
				pr.Use(handlers.Auth.AuthMiddleware)
			}

			if handlers.User != nil {
				pr.Route("/users", handlers.User.Routes)
			}
			if handlers.Employee != nil {
				pr.Route("/employees", handlers.Employee.Routes)
			}
			if handlers.Department != nil {
				pr.Route("/departments", handlers.Department.Routes)
			}
			if handlers.Role != nil {
				pr.Route("/roles", handlers.Role.Routes)
			}
			if handlers.UserProfile != nil {
				pr.Route("/user-profiles", handlers.UserProfile.Routes)
			}
		})
	}

	if opts.APIPrefix != "" {
		router.Route(opts.APIPrefix, mount)
		return
	}
	mount(router)
}
