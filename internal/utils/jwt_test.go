package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"prepcoach/internal/models"
)

const secret = "test-secret"

func TestVerifyToken(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		if _, err := VerifyToken(req, secret); err != ErrMissingAuthHeader {
			t.Fatalf("expected ErrMissingAuthHeader, got %v", err)
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Basic abc")
		if _, err := VerifyToken(req, secret); err != ErrMissingAuthHeader {
			t.Fatalf("expected ErrMissingAuthHeader, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "7",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})
		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		if _, err := VerifyToken(req, secret); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		signed, err := SignToken(&models.User{ID: 7, Role: models.RoleCandidate}, "other-secret", time.Hour)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		if _, err := VerifyToken(req, secret); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("invalid claims type", func(t *testing.T) {
		orig := parseJWT
		defer func() { parseJWT = orig }()

		parseJWT = func(tokenStr string, keyFunc jwt.Keyfunc) (*jwt.Token, error) {
			token := jwt.New(jwt.SigningMethodHS256)
			token.Claims = &jwt.RegisteredClaims{}
			token.Valid = true
			if _, err := keyFunc(token); err != nil {
				return nil, err
			}
			return token, nil
		}

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer fake")
		if _, err := VerifyToken(req, secret); err != ErrInvalidClaims {
			t.Fatalf("expected ErrInvalidClaims, got %v", err)
		}
	})

	t.Run("signed token round trip", func(t *testing.T) {
		signed, err := SignToken(&models.User{ID: 42, Email: "a@b.co", Role: models.RoleInterviewer}, secret, time.Hour)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		claims, err := VerifyToken(req, secret)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		id, err := GetUserIDFromClaims(claims)
		if err != nil || id != "42" {
			t.Fatalf("expected id 42, got %q (%v)", id, err)
		}
		if role := GetRoleFromClaims(claims); role != models.RoleInterviewer {
			t.Fatalf("expected interviewer role, got %q", role)
		}
	})

	t.Run("query token for websocket", func(t *testing.T) {
		signed, err := SignToken(&models.User{ID: 5}, secret, time.Hour)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		req := httptest.NewRequest("GET", "/stream?token="+signed, nil)
		if _, err := VerifyToken(req, secret); err != nil {
			t.Fatalf("expected query token to verify, got %v", err)
		}
	})
}

func TestGetUserIDFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    string
		wantErr bool
	}{
		{"string sub", jwt.MapClaims{"sub": "abc"}, "abc", false},
		{"float64 sub", jwt.MapClaims{"sub": float64(42)}, "42", false},
		{"missing sub", jwt.MapClaims{}, "", true},
		{"invalid type", jwt.MapClaims{"sub": true}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GetUserIDFromClaims(tt.claims)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if id != tt.want {
				t.Fatalf("expected id %q, got %q", tt.want, id)
			}
		})
	}
}
