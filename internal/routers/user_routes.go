package routers

import (
	"prepcoach/internal/handlers"
	"prepcoach/internal/middleware"
	"prepcoach/internal/models"

	"github.com/go-chi/chi/v5"
)

func UserRoutes(r *chi.Mux, userHandler *handlers.UserHandler, secret string) {
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/email-exists", userHandler.EmailExistsHandler) // Signup availability check

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(secret))
			r.Get("/me", userHandler.MeHandler)
			r.With(middleware.ValidateRequest[*models.ProfileUpdateRequest]()).Put("/me", userHandler.UpdateMeHandler)
			r.Delete("/me", userHandler.DeleteMeHandler)
			r.With(middleware.RequireRole(models.RoleInterviewer, models.RoleAdmin)).Get("/", userHandler.ListUsersHandler)
		})
	})
}
