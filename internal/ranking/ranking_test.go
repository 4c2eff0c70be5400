package ranking

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"prepcoach/internal/models"
)

var base = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func result(sessionID string, score float64, completedOffset time.Duration) models.CompletedResult {
	return models.CompletedResult{
		InterviewSummary: models.InterviewSummary{OverallScore: score},
		SessionID:        sessionID,
		CompletedAt:      base.Add(completedOffset),
	}
}

func TestComputeRankingDistinctScores(t *testing.T) {
	var results []models.CompletedResult
	for i := 0; i < 10; i++ {
		results = append(results, result(fmt.Sprintf("s%d", i), float64(i*10), 0))
	}

	top, err := ComputeRanking(results, "s9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top.Rank != 1 || top.TotalCandidates != 10 || top.Percentile != 90 || !top.TopPerformer {
		t.Fatalf("unexpected top ranking %+v", top)
	}

	second, err := ComputeRanking(results, "s8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Rank != 2 || second.Percentile != 80 || second.TopPerformer {
		t.Fatalf("unexpected second ranking %+v", second)
	}

	last, err := ComputeRanking(results, "s0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last.Rank != 10 || last.Percentile != 0 {
		t.Fatalf("unexpected last ranking %+v", last)
	}
}

func TestComputeRankingSingleResult(t *testing.T) {
	r, err := ComputeRanking([]models.CompletedResult{result("only", 55, 0)}, "only")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Rank != 1 || r.Percentile != 0 || !r.TopPerformer {
		t.Fatalf("unexpected ranking %+v", r)
	}
}

func TestComputeRankingTieBreak(t *testing.T) {
	results := []models.CompletedResult{
		result("late", 70, time.Hour),
		result("b-early", 70, 0),
		result("a-early", 70, 0),
	}
	tests := map[string]int{"a-early": 1, "b-early": 2, "late": 3}
	for id, want := range tests {
		t.Run(id, func(t *testing.T) {
			r, err := ComputeRanking(results, id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Rank != want {
				t.Fatalf("expected rank %d, got %d", want, r.Rank)
			}
		})
	}
}

func TestComputeRankingUnknownSession(t *testing.T) {
	_, err := ComputeRanking([]models.CompletedResult{result("a", 1, 0)}, "missing")
	if !errors.Is(err, ErrSessionNotRanked) {
		t.Fatalf("expected ErrSessionNotRanked, got %v", err)
	}
	_, err = ComputeRanking(nil, "missing")
	if !errors.Is(err, ErrSessionNotRanked) {
		t.Fatalf("expected ErrSessionNotRanked on empty input, got %v", err)
	}
}

func TestOrderDoesNotMutateInput(t *testing.T) {
	in := []models.CompletedResult{result("low", 1, 0), result("high", 2, 0)}
	out := Order(in)
	if in[0].SessionID != "low" || out[0].SessionID != "high" {
		t.Fatalf("unexpected order in=%v out=%v", in[0].SessionID, out[0].SessionID)
	}
}
