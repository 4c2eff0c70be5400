package routers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prepcoach/internal/handlers"
	"prepcoach/internal/models"
	"prepcoach/internal/utils"

	"github.com/go-chi/chi/v5"
)

const secret = "test-secret"

func walkRoutes(t *testing.T, r *chi.Mux) map[string]bool {
	t.Helper()
	paths := map[string]bool{}
	if err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		paths[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	return paths
}

func TestRoutesRegistered(t *testing.T) {
	r := chi.NewRouter()
	AuthRoutes(r, &handlers.AuthHandler{})
	UserRoutes(r, &handlers.UserHandler{}, secret)
	InterviewRoutes(r, &handlers.InterviewHandler{}, &handlers.StreamHandler{}, secret)
	ResultsRoutes(r, &handlers.ResultsHandler{}, &handlers.DashboardHandler{}, secret)
	HealthRoutes(r, handlers.NewHealthHandler(nil, nil, nil))

	expected := []string{
		"POST /api/v1/auth/signup",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"GET /api/v1/users/email-exists",
		"GET /api/v1/users/me",
		"PUT /api/v1/users/me",
		"DELETE /api/v1/users/me",
		"GET /api/v1/users/",
		"POST /api/v1/interview/open",
		"POST /api/v1/interview/resume",
		"POST /api/v1/interview/new",
		"POST /api/v1/interview/upload",
		"POST /api/v1/interview/info",
		"POST /api/v1/interview/answer",
		"POST /api/v1/interview/retry-results",
		"GET /api/v1/interview/state",
		"GET /api/v1/interview/stream",
		"GET /api/v1/results/",
		"GET /api/v1/results/{sessionId}",
		"GET /api/v1/results/{sessionId}/ranking",
		"GET /api/v1/dashboard",
		"GET /healthz",
		"GET /readyz",
		"GET /metrics",
	}

	paths := walkRoutes(t, r)
	for _, route := range expected {
		if !paths[route] {
			t.Errorf("missing route %s", route)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := chi.NewRouter()
	InterviewRoutes(r, &handlers.InterviewHandler{}, &handlers.StreamHandler{}, secret)
	ResultsRoutes(r, &handlers.ResultsHandler{}, &handlers.DashboardHandler{}, secret)

	for _, path := range []string{"/api/v1/interview/state", "/api/v1/results/", "/api/v1/dashboard"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token, got %d", path, rec.Code)
		}
	}
}

func TestDashboardRequiresInterviewerRole(t *testing.T) {
	r := chi.NewRouter()
	ResultsRoutes(r, &handlers.ResultsHandler{}, &handlers.DashboardHandler{}, secret)

	token, err := utils.SignToken(&models.User{ID: 5, Email: "c@example.com", Role: models.RoleCandidate}, secret, time.Hour)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for candidate, got %d", rec.Code)
	}
}

func TestHealthRoutes(t *testing.T) {
	router := chi.NewRouter()
	HealthRoutes(router, handlers.NewHealthHandler(nil, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/healthz route not registered correctly, got status %d", rec.Code)
	}
}
