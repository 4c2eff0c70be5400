package routers

import (
	"prepcoach/internal/handlers"
	"prepcoach/internal/middleware"
	"prepcoach/internal/models"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(r *chi.Mux, authHandler *handlers.AuthHandler) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.SignupRequest]()).Post("/signup", authHandler.SignupHandler)
		r.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/login", authHandler.LoginHandler)
		r.Post("/logout", authHandler.LogoutHandler)
	})
}
