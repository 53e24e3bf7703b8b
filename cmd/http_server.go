package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geracaoeleita/roster-management/internal"
	"github.com/geracaoeleita/roster-management/internal/auth"
	authpostgres "github.com/geracaoeleita/roster-management/internal/auth/postgres"
	"github.com/geracaoeleita/roster-management/internal/core/events"
	"github.com/geracaoeleita/roster-management/internal/notification"
	notificationpostgres "github.com/geracaoeleita/roster-management/internal/notification/postgres"
	"github.com/geracaoeleita/roster-management/internal/schedule"
	schedulepostgres "github.com/geracaoeleita/roster-management/internal/schedule/postgres"
	"github.com/geracaoeleita/roster-management/internal/transport/rest"
	"github.com/geracaoeleita/roster-management/internal/user"
	userpostgres "github.com/geracaoeleita/roster-management/internal/user/postgres"
	"github.com/geracaoeleita/roster-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM shares the sqlx pool so there is a single connection
	// lifecycle to manage.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	userRepo := userpostgres.NewUserRepository(gormDB)
	authRepo := authpostgres.NewRepository(gormDB)
	scheduleRepo := schedulepostgres.NewScheduleRepository(gormDB)
	notificationRepo := notificationpostgres.NewNotificationRepository(gormDB)

	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	userService := user.NewService(userRepo, authService, appLogger)
	scheduleService := schedule.NewService(scheduleRepo, eventBus, appLogger)
	notificationService := notification.NewService(notificationRepo, appLogger)

	notificationEvents := notification.NewEventHandler(notificationService, appLogger)
	notificationEvents.RegisterEventHandlers(eventBus)

	if err := userService.EnsureDefaultAdmin(config.Security.DefaultAdminPassword); err != nil {
		return nil, fmt.Errorf("failed to ensure default admin: %w", err)
	}

	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	scheduleHandler := schedule.NewHandler(scheduleService)
	notificationHandler := notification.NewHandler(notificationService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, userHandler, scheduleHandler, notificationHandler, appLogger)

	return &Dependencies{
		Config: config,
		Logger: appLogger,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
