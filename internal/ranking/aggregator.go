package ranking

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"prepcoach/internal/models"
	"prepcoach/internal/repositories"
)

// Source is the read side of the snapshot store.
type Source interface {
	ListAllResults(ctx context.Context) ([]models.CompletedResult, error)
	GetResult(ctx context.Context, userID, sessionID string) (*models.CompletedResult, error)
	ListUserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error)
	ListAllHistories(ctx context.Context) (map[string][]models.HistoryEntry, error)
	ListSnapshots(ctx context.Context) ([]repositories.StoredSnapshot, error)
}

type Aggregator struct {
	source Source
	logger *zap.Logger
}

func NewAggregator(source Source, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{source: source, logger: logger}
}

// Rank places sessionID among every stored result.
func (a *Aggregator) Rank(ctx context.Context, sessionID string) (*Ranking, error) {
	results, err := a.source.ListAllResults(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeRanking(results, sessionID)
}

// UserResult pairs a history entry with its full result, when present.
type UserResult struct {
	models.HistoryEntry
	Result *models.CompletedResult `json:"result,omitempty"`
}

// UserResults lists a user's interviews, newest first.
func (a *Aggregator) UserResults(ctx context.Context, userID string) ([]UserResult, error) {
	history, err := a.source.ListUserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]UserResult, 0, len(history))
	for _, h := range history {
		result, err := a.source.GetResult(ctx, userID, h.SessionID)
		if err != nil {
			return nil, err
		}
		out = append(out, UserResult{HistoryEntry: h, Result: result})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

// LatestRanking ranks the user's most recent interview. It returns
// (nil, nil) for a user with no interviews.
func (a *Aggregator) LatestRanking(ctx context.Context, userID string) (*Ranking, error) {
	results, err := a.UserResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return a.Rank(ctx, results[0].SessionID)
}
