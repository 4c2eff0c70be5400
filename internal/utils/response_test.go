package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"prepcoach/internal/apperr"
	"prepcoach/internal/models"
)

func TestJSONWritesPayload(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusCreated, map[string]any{"foo": "bar"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}
	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if decoded["foo"] != "bar" {
		t.Fatalf("expected payload value 'bar', got %v", decoded["foo"])
	}
}

func TestJSONSkipsNilPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusAccepted, nil)
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperr.Validation("file_too_large", "too big"), http.StatusBadRequest, "file_too_large"},
		{"state", apperr.State("wrong_phase", "nope", nil), http.StatusConflict, "wrong_phase"},
		{"gateway", apperr.Gateway("service_unavailable", "down", nil), http.StatusBadGateway, "service_unavailable"},
		{"gateway timeout", apperr.Gateway("timeout", "slow", nil), http.StatusGatewayTimeout, "timeout"},
		{"not found", apperr.Store("user_not_found", "missing", nil), http.StatusNotFound, "user_not_found"},
		{"duplicate", apperr.Store("duplicate_email", "taken", nil), http.StatusConflict, "duplicate_email"},
		{"credentials", apperr.Store("invalid_credentials", "bad", nil), http.StatusUnauthorized, "invalid_credentials"},
		{"store", apperr.Store("store_failure", "write failed", errors.New("disk")), http.StatusInternalServerError, "store_failure"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if resp.Code != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, resp.Code)
			}
		})
	}
}

func TestGetLoggerInitializes(t *testing.T) {
	Logger = nil
	if GetLogger() == nil {
		t.Fatal("expected logger to be initialized")
	}
	InitLogger("development")
	if Logger == nil {
		t.Fatal("expected development logger")
	}
}
