package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"prepcoach/internal/apperr"
	"prepcoach/internal/models"
)

// JSON writes a JSON response with status code
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// JSONError writes an error message in JSON
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

var codeStatus = map[string]int{
	"user_not_found":      http.StatusNotFound,
	"duplicate_email":     http.StatusConflict,
	"invalid_credentials": http.StatusUnauthorized,
	"session_not_ranked":  http.StatusNotFound,
	"timeout":             http.StatusGatewayTimeout,
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation: http.StatusBadRequest,
	apperr.KindState:      http.StatusConflict,
	apperr.KindGateway:    http.StatusBadGateway,
	apperr.KindStore:      http.StatusInternalServerError,
}

// StatusFor maps an application error to an HTTP status.
func StatusFor(err error) int {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	if status, ok := codeStatus[e.Code]; ok {
		return status
	}
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteError renders err as an ErrorResponse. Store failures hide their cause.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	resp := models.ErrorResponse{Code: "internal_error", Message: "Internal server error"}
	var e *apperr.Error
	if errors.As(err, &e) {
		resp.Code = e.Code
		resp.Message = e.Message
	}
	JSON(w, status, resp)
}
