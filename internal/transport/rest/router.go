package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/geracaoeleita/roster-management/internal/auth"
	"github.com/geracaoeleita/roster-management/internal/notification"
	"github.com/geracaoeleita/roster-management/internal/schedule"
	"github.com/geracaoeleita/roster-management/internal/transport/middleware"
	"github.com/geracaoeleita/roster-management/internal/transport/swagger"
	"github.com/geracaoeleita/roster-management/internal/user"
	"github.com/go-chi/chi"
)

// RegisterAllRoutes mounts the roster API under /api. Writes to users
// and schedules are admin-gated; everything else only needs a resolved
// identity. Login is the single unauthenticated endpoint.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, scheduleHandler *schedule.Handler, notificationHandler *notification.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec at root, UI under /swagger
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/login", authHandler.Login)

		// Routes below require a resolved caller identity.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/me", userHandler.GetCurrentUser)

			pr.Get("/schedules", scheduleHandler.ListSchedules)
			pr.Post("/schedule-response", scheduleHandler.Respond)

			pr.Get("/notifications", notificationHandler.ListNotifications)
			pr.Patch("/notifications/{id}/read", notificationHandler.MarkRead)

			// Admin-only management routes.
			pr.Group(func(ar chi.Router) {
				ar.Use(authHandler.AdminMiddleware)

				ar.Get("/users", userHandler.ListUsers)
				ar.Post("/users", userHandler.CreateUser)
				ar.Delete("/users/{id}", userHandler.DeleteUser)

				ar.Post("/schedules", scheduleHandler.CreateSchedule)
				ar.Put("/schedules/{id}", scheduleHandler.UpdateSchedule)
				ar.Delete("/schedules/{id}", scheduleHandler.DeleteSchedule)
			})
		})
	})
}
