package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"prepcoach/internal/middleware"
	"prepcoach/internal/models"
)

func seedUser(t *testing.T, h *UserHandler, email string, role models.Role) *models.User {
	t.Helper()
	user, err := h.Users.CreateUser(&models.User{Email: email, Password: "secret123", Role: role, FirstName: "Test", LastName: "User"})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestMeHandler(t *testing.T) {
	h := NewUserHandler(newUserRepo(t), nil, nil)
	seedUser(t, h, "me@example.com", models.RoleCandidate)

	rec := httptest.NewRecorder()
	h.MeHandler(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil), "1", models.RoleCandidate))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user := decodeJSON[models.User](t, rec)
	if user.Email != "me@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}

	rec = httptest.NewRecorder()
	h.MeHandler(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil), "99", models.RoleCandidate))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}
}

func TestUpdateMeHandler_MarksProfileComplete(t *testing.T) {
	h := NewUserHandler(newUserRepo(t), nil, nil)
	seedUser(t, h, "me@example.com", models.RoleCandidate)

	r := chi.NewRouter()
	r.With(middleware.ValidateRequest[*models.ProfileUpdateRequest]()).Put("/me", h.UpdateMeHandler)

	req := httptest.NewRequest(http.MethodPut, "/me", strings.NewReader(`{"company":"Acme","experience":"3-5","skills":["Go"]}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "1", models.RoleCandidate))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user := decodeJSON[models.User](t, rec)
	if user.Company != "Acme" || user.Experience != "3-5" || !user.ProfileComplete {
		t.Fatalf("update not applied: %+v", user)
	}

	req = httptest.NewRequest(http.MethodPut, "/me", strings.NewReader(`{"experience":"forever"}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "1", models.RoleCandidate))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad experience, got %d", rec.Code)
	}
}

func TestDeleteMeHandler(t *testing.T) {
	registry, _ := newTestRegistry()
	h := NewUserHandler(newUserRepo(t), registry, nil)
	seedUser(t, h, "me@example.com", models.RoleCandidate)
	registry.Get("1")

	rec := httptest.NewRecorder()
	h.DeleteMeHandler(rec, asUser(httptest.NewRequest(http.MethodDelete, "/api/v1/users/me", nil), "1", models.RoleCandidate))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected the deleted user's interview machine to be evicted, %d left", registry.Len())
	}

	rec = httptest.NewRecorder()
	h.DeleteMeHandler(rec, asUser(httptest.NewRequest(http.MethodDelete, "/api/v1/users/me", nil), "1", models.RoleCandidate))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestListUsersHandler(t *testing.T) {
	h := NewUserHandler(newUserRepo(t), nil, nil)
	seedUser(t, h, "a@example.com", models.RoleCandidate)
	seedUser(t, h, "b@example.com", models.RoleInterviewer)

	rec := httptest.NewRecorder()
	h.ListUsersHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	users := decodeJSON[[]models.User](t, rec)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if strings.Contains(rec.Body.String(), "secret123") {
		t.Fatal("password leaked in user list")
	}
}

func TestEmailExistsHandler(t *testing.T) {
	h := NewUserHandler(newUserRepo(t), nil, nil)
	seedUser(t, h, "taken@example.com", models.RoleCandidate)

	tests := []struct {
		query  string
		status int
		exists bool
	}{
		{"?email=TAKEN@example.com", http.StatusOK, true},
		{"?email=free@example.com", http.StatusOK, false},
		{"", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.EmailExistsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/email-exists"+tt.query, nil))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.status != http.StatusOK {
				return
			}
			if got := decodeJSON[map[string]bool](t, rec)["exists"]; got != tt.exists {
				t.Fatalf("expected exists=%v, got %v", tt.exists, got)
			}
		})
	}
}
