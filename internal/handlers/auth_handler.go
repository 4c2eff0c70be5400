package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"prepcoach/internal/middleware"
	"prepcoach/internal/models"
	"prepcoach/internal/repositories"
	"prepcoach/internal/utils"
)

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	Users     UserRepository
	JWTSecret string
	TokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthHandler(users UserRepository, secret string, ttl time.Duration, logger *zap.Logger) *AuthHandler {
	if secret == "" {
		secret = "dev"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{Users: users, JWTSecret: secret, TokenTTL: ttl, logger: logger}
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *models.User) {
	token, err := utils.SignToken(user, h.JWTSecret, h.TokenTTL)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Uint("user_id", user.ID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}
	utils.JSON(w, status, models.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SignupRequest](r)

	user, err := h.Users.CreateUser(&models.User{
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Company:    req.Company,
		JobTitle:   req.JobTitle,
		Experience: req.Experience,
		Preferences: models.Preferences{
			Notifications: true,
			EmailUpdates:  req.SubscribeNewsletter,
			Theme:         "light",
		},
	})
	if err != nil {
		if !errors.Is(err, repositories.ErrDuplicateEmail) {
			h.logger.Error("signup failed", zap.Error(err))
		}
		utils.WriteError(w, err)
		return
	}
	h.logger.Info("user signed up", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	h.respondWithToken(w, http.StatusCreated, user)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](r)

	user, err := h.Users.AuthenticateUser(req.Email, req.Password)
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "user_not_found",
			Message: "No account found with this email",
		})
		return
	case err != nil:
		utils.WriteError(w, err)
		return
	}
	h.respondWithToken(w, http.StatusOK, user)
}

// LogoutHandler is stateless; the client discards its token.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
