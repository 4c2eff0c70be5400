package gateway

import (
	"testing"
	"time"

	"prepcoach/internal/models"
)

func TestAnalysisCacheSetGet(t *testing.T) {
	cache := NewAnalysisCache(time.Hour)
	cache.Set("text", models.ResumeAnalysis{Summary: "s"})

	got, ok := cache.Get("text")
	if !ok || got.Summary != "s" {
		t.Fatalf("expected cached analysis, got %+v %v", got, ok)
	}
	if _, ok := cache.Get("other"); ok {
		t.Fatal("expected miss for different text")
	}
}

func TestAnalysisCacheExpiration(t *testing.T) {
	cache := NewAnalysisCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	cache.Set("text", models.ResumeAnalysis{})

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("text"); ok {
		t.Fatal("expected entry to expire")
	}
	cache.Cleanup()
	if cache.Size() != 0 {
		t.Fatalf("expected cleanup to remove expired entry, got %d", cache.Size())
	}
}

func TestAnalysisCacheDisabled(t *testing.T) {
	cache := NewAnalysisCache(0)
	cache.Set("text", models.ResumeAnalysis{})
	if cache.Size() != 0 {
		t.Fatal("expected zero TTL to disable caching")
	}
}
