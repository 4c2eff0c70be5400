package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"prepcoach/internal/apperr"
	"prepcoach/internal/models"
	"prepcoach/internal/utils"
)

type contextKey string

const validatedRequestKey contextKey = "validated_request"

// JSON request bodies above this size are rejected before decoding.
const maxJSONBody = 1 << 20

// Validator is implemented by request models.
type Validator interface {
	Validate() error
}

// ValidateRequest decodes the JSON body into T, runs its Validate method and
// stores the result in the request context for GetValidatedRequest.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := newRequest[T]()

			body := http.MaxBytesReader(w, r.Body, maxJSONBody)
			if err := json.NewDecoder(body).Decode(req); err != nil {
				utils.WriteError(w, decodeError(err))
				return
			}

			if err := req.Validate(); err != nil {
				var errResp *models.ErrorResponse
				if errors.As(err, &errResp) {
					utils.JSON(w, http.StatusBadRequest, *errResp)
					return
				}
				utils.WriteError(w, apperr.Wrap(apperr.KindValidation, "validation_error", err.Error(), err))
				return
			}

			ctx := context.WithValue(r.Context(), validatedRequestKey, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRequest[T Validator]() T {
	var req T
	reqType := reflect.TypeOf(req)
	if reqType.Kind() == reflect.Ptr {
		return reflect.New(reqType.Elem()).Interface().(T)
	}
	return reflect.New(reqType).Interface().(T)
}

func decodeError(err error) error {
	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return apperr.Wrap(apperr.KindValidation, "missing_body", "Request body is required", err)
	case errors.As(err, &sizeErr):
		return apperr.Wrap(apperr.KindValidation, "body_too_large", fmt.Sprintf("Request body exceeds %d bytes", sizeErr.Limit), err)
	case errors.As(err, &typeErr):
		return apperr.Wrap(apperr.KindValidation, "invalid_field_type", fmt.Sprintf("Field %s must be a %s", typeErr.Field, typeErr.Type), err)
	default:
		return apperr.Wrap(apperr.KindValidation, "invalid_json", "Invalid JSON in request body", err)
	}
}

func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}
