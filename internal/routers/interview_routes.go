package routers

import (
	"prepcoach/internal/handlers"
	"prepcoach/internal/middleware"
	"prepcoach/internal/models"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(r *chi.Mux, interviewHandler *handlers.InterviewHandler, streamHandler *handlers.StreamHandler, secret string) {
	r.Route("/api/v1/interview", func(r chi.Router) {
		r.Use(middleware.RequireAuth(secret))
		r.Post("/open", interviewHandler.OpenHandler)
		r.Post("/resume", interviewHandler.ResumeHandler)
		r.Post("/new", interviewHandler.StartNewHandler)
		r.Post("/upload", interviewHandler.UploadHandler)
		r.With(middleware.ValidateRequest[*models.TextRequest]()).Post("/info", interviewHandler.InfoHandler)
		r.With(middleware.ValidateRequest[*models.TextRequest]()).Post("/answer", interviewHandler.AnswerHandler)
		r.Post("/retry-results", interviewHandler.RetryResultsHandler)
		r.Get("/state", interviewHandler.StateHandler)
		r.Get("/stream", streamHandler.StreamHandler) // websocket; token may be passed as ?token=
	})
}
