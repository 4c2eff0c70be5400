package middleware

import (
	"context"
	"net/http"
	"slices"

	"prepcoach/internal/models"
	"prepcoach/internal/utils"
)

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "user_role"
)

// RequireAuth verifies the bearer token and stores the caller's id and role.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "unauthorized", Message: err.Error()})
				return
			}
			userID, err := utils.GetUserIDFromClaims(claims)
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "unauthorized", Message: err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, utils.GetRoleFromClaims(claims))))
		})
	}
}

// RequireRole rejects callers whose role is not listed. It must run after RequireAuth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(roles, RoleFrom(r.Context())) {
				utils.JSON(w, http.StatusForbidden, models.ErrorResponse{
					Code:    "forbidden",
					Message: "You do not have access to this resource",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func RoleFrom(ctx context.Context) models.Role {
	role, _ := ctx.Value(roleKey).(models.Role)
	return role
}

// WithUser returns ctx carrying an authenticated caller.
func WithUser(ctx context.Context, userID string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}
