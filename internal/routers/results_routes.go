package routers

import (
	"prepcoach/internal/handlers"
	"prepcoach/internal/middleware"
	"prepcoach/internal/models"

	"github.com/go-chi/chi/v5"
)

func ResultsRoutes(r *chi.Mux, resultsHandler *handlers.ResultsHandler, dashboardHandler *handlers.DashboardHandler, secret string) {
	r.Route("/api/v1/results", func(r chi.Router) {
		r.Use(middleware.RequireAuth(secret))
		r.Get("/", resultsHandler.ListResultsHandler)
		r.Get("/{sessionId}", resultsHandler.GetResultHandler)
		r.Get("/{sessionId}/ranking", resultsHandler.RankingHandler)
	})

	r.With(
		middleware.RequireAuth(secret),
		middleware.RequireRole(models.RoleInterviewer, models.RoleAdmin),
	).Get("/api/v1/dashboard", dashboardHandler.DashboardHandler)
}
