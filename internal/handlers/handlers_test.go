package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"prepcoach/internal/middleware"
	"prepcoach/internal/models"
	"prepcoach/internal/repositories"
	"prepcoach/internal/testhelpers"
)

func newUserRepo(t *testing.T) *repositories.UserRepository {
	t.Helper()
	return repositories.NewUserRepository(testhelpers.SetupTestDB(t), repositories.PlainHasher{})
}

// asUser attaches an authenticated caller to the request, as RequireAuth does.
func asUser(r *http.Request, userID string, role models.Role) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), userID, role))
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	return decodeJSON[models.ErrorResponse](t, rec)
}

type stubPrompts []string

func (s stubPrompts) GetTemplates() []string { return s }
