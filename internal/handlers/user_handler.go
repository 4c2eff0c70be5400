package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"prepcoach/internal/middleware"
	"prepcoach/internal/models"
	"prepcoach/internal/repositories"
	"prepcoach/internal/utils"
)

type UserHandler struct {
	Users    UserRepository
	Sessions SessionEvicter // optional
	logger   *zap.Logger
}

func NewUserHandler(users UserRepository, sessions SessionEvicter, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{Users: users, Sessions: sessions, logger: logger}
}

func (h *UserHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetUserByID(middleware.UserIDFrom(r.Context()))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if user == nil {
		utils.WriteError(w, repositories.ErrUserNotFound)
		return
	}
	user.Password = ""
	utils.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ProfileUpdateRequest](r)
	user, err := h.Users.UpdateUser(middleware.UserIDFrom(r.Context()), req.ToUpdate())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteMeHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	if err := h.Users.DeleteUser(userID); err != nil {
		utils.WriteError(w, err)
		return
	}
	if h.Sessions != nil {
		h.Sessions.Evict(userID)
	}
	h.logger.Info("user deleted", zap.String("user_id", userID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListAllUsers()
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) EmailExistsHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "missing_email", Message: "email query parameter is required"})
		return
	}
	exists, err := h.Users.EmailExists(email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"exists": exists})
}
