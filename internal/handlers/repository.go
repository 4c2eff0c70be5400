package handlers

import (
	"context"

	"prepcoach/internal/models"
	"prepcoach/internal/ranking"
)

// SessionEvicter drops a user's in-memory interview machine.
type SessionEvicter interface {
	Evict(ownerID string) bool
}

// UserRepository captures the persistence operations required by handlers.
type UserRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
	UpdateUser(userID string, updates *models.UserUpdate) (*models.User, error)
	AuthenticateUser(email, password string) (*models.User, error)
	EmailExists(email string) (bool, error)
	DeleteUser(userID string) error
	ListAllUsers() ([]models.User, error)
}

// ResultReader captures the result and ranking reads required by handlers.
type ResultReader interface {
	UserResults(ctx context.Context, userID string) ([]ranking.UserResult, error)
	LatestRanking(ctx context.Context, userID string) (*ranking.Ranking, error)
	Rank(ctx context.Context, sessionID string) (*ranking.Ranking, error)
	Dashboard(ctx context.Context, q ranking.DashboardQuery) (*ranking.Dashboard, error)
}

// ResultStore looks up a single stored result.
type ResultStore interface {
	GetResult(ctx context.Context, userID, sessionID string) (*models.CompletedResult, error)
}
