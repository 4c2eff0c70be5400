package jobs

import (
	"context"
	"testing"
	"time"

	"prepcoach/internal/kv"
	"prepcoach/internal/models"
	"prepcoach/internal/repositories"
	"prepcoach/internal/testhelpers"
)

var now = time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

func newJob(t *testing.T, store *repositories.SnapshotStore) *SnapshotCleanupJob {
	t.Helper()
	job := NewSnapshotCleanupJob(store, &CleanupConfig{Schedule: "@every 1h", TTL: 24 * time.Hour, Enabled: true}, nil)
	job.now = func() time.Time { return now }
	return job
}

func TestRunCleanup_RemovesOnlyStaleSnapshots(t *testing.T) {
	ctx := context.Background()
	raw, err := kv.NewGormStore(testhelpers.SetupTestDB(t))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	store := repositories.NewSnapshotStore(raw, nil)

	if err := store.ForProfile("fresh").SaveSnapshot(ctx, &models.Session{ID: "a", LastActivity: now.Add(-time.Hour)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.ForProfile("stale").SaveSnapshot(ctx, &models.Session{ID: "b", LastActivity: now.Add(-48 * time.Hour)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := raw.Set(ctx, repositories.SnapshotKey("broken"), []byte("{oops")); err != nil {
		t.Fatalf("set: %v", err)
	}
	result := &models.CompletedResult{SessionID: "b"}
	if err := store.SaveResult(ctx, "stale", "b", result); err != nil {
		t.Fatalf("save result: %v", err)
	}

	removed, err := newJob(t, store).RunCleanup(ctx)
	if err != nil {
		t.Fatalf("RunCleanup returned error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed snapshots, got %d", removed)
	}

	left, err := store.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 1 || left[0].Profile != "fresh" {
		t.Fatalf("unexpected remaining snapshots %+v", left)
	}

	got, err := store.GetResult(ctx, "stale", "b")
	if err != nil || got == nil {
		t.Fatalf("expected result to survive cleanup, got %v, %v", got, err)
	}
}

func TestRunCleanup_NoSnapshots(t *testing.T) {
	removed, err := newJob(t, repositories.NewSnapshotStore(kv.NewMemoryStore(), nil)).RunCleanup(context.Background())
	if err != nil {
		t.Fatalf("RunCleanup with no data should not error, got %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected nothing removed, got %d", removed)
	}
}

func TestStart(t *testing.T) {
	store := repositories.NewSnapshotStore(kv.NewMemoryStore(), nil)

	disabled := NewSnapshotCleanupJob(store, &CleanupConfig{Enabled: false}, nil)
	if err := disabled.Start(); err != nil {
		t.Fatalf("disabled job should not error, got %v", err)
	}

	bad := NewSnapshotCleanupJob(store, &CleanupConfig{Enabled: true, Schedule: "not a schedule", TTL: time.Hour}, nil)
	if err := bad.Start(); err == nil {
		t.Fatalf("expected invalid schedule to fail")
	}

	noTTL := NewSnapshotCleanupJob(store, &CleanupConfig{Enabled: true, Schedule: "@every 1h"}, nil)
	if err := noTTL.Start(); err == nil {
		t.Fatalf("expected zero TTL to fail")
	}

	job := newJob(t, store)
	if err := job.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	job.Stop()
}

type recordingEvictor struct {
	idle  time.Duration
	calls int
}

func (e *recordingEvictor) EvictIdle(maxIdle time.Duration) int {
	e.idle = maxIdle
	e.calls++
	return 2
}

func TestEvictIdleSessions(t *testing.T) {
	store := repositories.NewSnapshotStore(kv.NewMemoryStore(), nil)

	if n := newJob(t, store).EvictIdleSessions(); n != 0 {
		t.Fatalf("expected no eviction without a session registry, got %d", n)
	}

	evictor := &recordingEvictor{}
	job := NewSnapshotCleanupJob(store, &CleanupConfig{
		Schedule:    "@every 1h",
		TTL:         time.Hour,
		Enabled:     true,
		Sessions:    evictor,
		SessionIdle: 30 * time.Minute,
	}, nil)
	if n := job.EvictIdleSessions(); n != 2 {
		t.Fatalf("expected 2 evictions, got %d", n)
	}
	if evictor.calls != 1 || evictor.idle != 30*time.Minute {
		t.Fatalf("unexpected evictor call %+v", evictor)
	}
}
