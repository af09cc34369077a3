package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/internship-api/api"
	"github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/internal/auth"
	authpostgres "github.com/frahmantamala/internship-api/internal/auth/postgres"
	"github.com/frahmantamala/internship-api/internal/core/cache"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"github.com/frahmantamala/internship-api/internal/core/events"
	"github.com/frahmantamala/internship-api/internal/department"
	departmentpostgres "github.com/frahmantamala/internship-api/internal/department/postgres"
	"github.com/frahmantamala/internship-api/internal/employee"
	employeepostgres "github.com/frahmantamala/internship-api/internal/employee/postgres"
	"github.com/frahmantamala/internship-api/internal/role"
	rolepostgres "github.com/frahmantamala/internship-api/internal/role/postgres"
	"github.com/frahmantamala/internship-api/internal/transport"
	"github.com/frahmantamala/internship-api/internal/transport/rest"
	"github.com/frahmantamala/internship-api/internal/user"
	userpostgres "github.com/frahmantamala/internship-api/internal/user/postgres"
	"github.com/frahmantamala/internship-api/internal/userprofile"
	userprofilepostgres "github.com/frahmantamala/internship-api/internal/userprofile/postgres"
	"github.com/frahmantamala/internship-api/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config        *internal.Config
	DB            *sqlx.DB
	Gorm          *gorm.DB
	Cache         *cache.Store
	EventBus      *events.EventBus
	Router        *chi.Mux
	HealthChecker *rest.HealthHandler
	Logger        *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "api_prefix", deps.Config.Server.APIPrefix)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	opts := rest.Options{
		APIPrefix:      deps.Config.Server.APIPrefix,
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		RequireAuth:    deps.Config.Security.RequireAuth,
		MaxBodyBytes:   deps.Config.Server.MaxBodyBytes,
	}
	rest.RegisterAllRoutes(deps.Router, opts, buildHandlers(deps), deps.HealthChecker, deps.Logger)
}

// buildHandlers wires repositories, services and handlers for every resource.
// All services share one result cache and one event bus.
func buildHandlers(deps *Dependencies) rest.Handlers {
	cfg := deps.Config
	base := transport.NewBaseHandler(deps.Logger)
	maxTake := cfg.Query.MaxTake

	userSvc := user.NewService(
		userpostgres.NewUserRepository(deps.Gorm),
		deps.Cache,
		deps.EventBus,
		user.Config{MaxTake: maxTake, BCryptCost: cfg.Security.BCryptCost},
		deps.Logger,
	)
	employeeSvc := employee.NewService(employeepostgres.NewEmployeeRepository(deps.Gorm), deps.Cache, deps.EventBus, maxTake, deps.Logger)
	departmentSvc := department.NewService(departmentpostgres.NewDepartmentRepository(deps.Gorm), deps.EventBus, maxTake, deps.Logger)
	roleSvc := role.NewService(rolepostgres.NewRoleRepository(deps.Gorm), deps.Cache, deps.EventBus, maxTake, deps.Logger)
	profileSvc := userprofile.NewService(userprofilepostgres.NewUserProfileRepository(deps.Gorm), deps.Cache, deps.EventBus, maxTake, deps.Logger)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authSvc := auth.NewService(authpostgres.NewRepository(deps.Gorm), tokens, cfg.Security.BCryptCost, deps.Logger)

	return rest.Handlers{
		Auth:        auth.NewHandler(base, authSvc),
		User:        user.NewHandler(base, userSvc),
		Employee:    employee.NewHandler(base, employeeSvc),
		Department:  department.NewHandler(base, departmentSvc),
		Role:        role.NewHandler(base, roleSvc),
		UserProfile: userprofile.NewHandler(base, profileSvc),
	}
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	if _, err := api.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db.DB, config.Database.LogQueries)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	if config.Database.AutoMigrate {
		if err := gdb.AutoMigrate(datamodel.All()...); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to auto-migrate schema: %w", err)
		}
		lg.Info("schema auto-migrated")
	}

	store := cache.New(config.Cache.TTL)
	bus := events.NewEventBus(lg)
	cache.SubscribeInvalidation(bus, store, lg)

	return &Dependencies{
		Config:        config,
		Logger:        lg,
		DB:            db,
		Gorm:          gdb,
		Cache:         store,
		EventBus:      bus,
		Router:        chi.NewRouter(),
		HealthChecker: rest.NewHealthHandler(db),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers gorm over the pool opened by initDB so both share connections.
func initGorm(conn *sql.DB, logQueries bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if logQueries {
		level = gormlogger.Info
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
}
