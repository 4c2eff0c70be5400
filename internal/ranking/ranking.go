// Package ranking compares completed interviews across every candidate.
package ranking

import (
	"math"
	"sort"

	"prepcoach/internal/apperr"
	"prepcoach/internal/models"
)

var ErrSessionNotRanked = apperr.State("session_not_ranked", "session has no stored result", nil)

type Ranking struct {
	SessionID       string  `json:"sessionId"`
	Rank            int     `json:"rank"`
	TotalCandidates int     `json:"totalCandidates"`
	Percentile      int     `json:"percentile"`
	TopPerformer    bool    `json:"topPerformer"`
	OverallScore    float64 `json:"overallScore"`
}

// Order sorts results best first. Equal scores go to the earlier
// completion, then to the smaller session id.
func Order(results []models.CompletedResult) []models.CompletedResult {
	sorted := append([]models.CompletedResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		if !a.CompletedAt.Equal(b.CompletedAt) {
			return a.CompletedAt.Before(b.CompletedAt)
		}
		return a.SessionID < b.SessionID
	})
	return sorted
}

// ComputeRanking locates sessionID among results.
func ComputeRanking(results []models.CompletedResult, sessionID string) (*Ranking, error) {
	sorted := Order(results)
	n := len(sorted)
	for i, r := range sorted {
		if r.SessionID != sessionID {
			continue
		}
		rank := i + 1
		return &Ranking{
			SessionID:       sessionID,
			Rank:            rank,
			TotalCandidates: n,
			Percentile:      int(math.Round(float64(n-rank) / float64(n) * 100)),
			TopPerformer:    rank <= int(math.Ceil(float64(n)*0.1)),
			OverallScore:    r.OverallScore,
		}, nil
	}
	return nil, ErrSessionNotRanked
}
