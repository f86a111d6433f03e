package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sportspace-admin/internal/config"
	"sportspace-admin/internal/handler"
	"sportspace-admin/internal/metrics"
	"sportspace-admin/internal/middleware"
	"sportspace-admin/internal/model"
)

func New(
	cfg *config.Config,
	reg *metrics.Registry,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	spaceHandler *handler.SpaceHandler,
	bookingHandler *handler.BookingHandler,
	auditHandler *handler.AuditHandler,
	health func() error,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(reg.Middleware)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if health != nil {
			if err := health(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unhealthy"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", reg.Handler().ServeHTTP)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.Post("/refresh", authHandler.Refresh)
			auth.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		adminOnly := []func(http.Handler) http.Handler{
			authMiddleware.RequireAuth,
			authMiddleware.RequireRoles(model.RoleAdmin),
		}
		staffOnly := []func(http.Handler) http.Handler{
			authMiddleware.RequireAuth,
			authMiddleware.RequireRoles(model.RoleAdmin, model.RoleTrainer),
		}

		api.With(adminOnly...).Post("/users", userHandler.Create)
		api.With(adminOnly...).Get("/users", userHandler.List)
		api.With(adminOnly...).Get("/users/{user_id}", userHandler.Get)
		api.With(adminOnly...).Put("/users/{user_id}", userHandler.Update)
		api.With(adminOnly...).Delete("/users/{user_id}", userHandler.Delete)

		api.With(authMiddleware.RequireAuth).Get("/sports", spaceHandler.ListSports)
		api.With(adminOnly...).Post("/sports", spaceHandler.CreateSport)

		api.With(authMiddleware.RequireAuth).Get("/spaces", spaceHandler.List)
		api.With(authMiddleware.RequireAuth).Get("/spaces/{space_id}", spaceHandler.Get)
		api.With(authMiddleware.RequireAuth).Get("/spaces/{space_id}/image", spaceHandler.Image)
		api.With(authMiddleware.RequireAuth).Get("/spaces/{space_id}/thumbnail", spaceHandler.Thumbnail)
		api.With(adminOnly...).Post("/spaces", spaceHandler.Create)
		api.With(adminOnly...).Put("/spaces/{space_id}", spaceHandler.Update)
		api.With(adminOnly...).Delete("/spaces/{space_id}", spaceHandler.Delete)
		api.With(staffOnly...).Put("/spaces/{space_id}/schedules", spaceHandler.ReplaceSchedules)

		api.With(authMiddleware.RequireAuth).Post("/bookings", bookingHandler.Create)
		api.With(authMiddleware.RequireAuth).Get("/bookings", bookingHandler.List)
		api.With(authMiddleware.RequireAuth).Get("/bookings/creator/{creator_id}", bookingHandler.ListByCreator)
		api.With(authMiddleware.RequireAuth).Delete("/bookings/{booking_id}", bookingHandler.Delete)

		api.With(adminOnly...).Get("/audit", auditHandler.Recent)
	})

	return r
}
