package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"prepcoach/internal/repositories"
)

// SnapshotCleanupJob deletes abandoned in-progress sessions. Results and
// history are never touched.
type SnapshotCleanupJob struct {
	store  *repositories.SnapshotStore
	config *CleanupConfig
	logger *zap.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// IdleEvictor releases in-memory interview machines that have gone quiet.
type IdleEvictor interface {
	EvictIdle(maxIdle time.Duration) int
}

type CleanupConfig struct {
	Schedule string        // cron schedule, e.g. "@every 1h"
	TTL      time.Duration // snapshots idle longer than this are removed
	Enabled  bool

	Sessions    IdleEvictor   // optional
	SessionIdle time.Duration // machines unused for this long are evicted
}

func NewSnapshotCleanupJob(store *repositories.SnapshotStore, config *CleanupConfig, logger *zap.Logger) *SnapshotCleanupJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotCleanupJob{
		store:  store,
		config: config,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}
}

func (j *SnapshotCleanupJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("snapshot cleanup is disabled, skipping scheduler")
		return nil
	}
	if j.config.TTL <= 0 {
		return fmt.Errorf("snapshot cleanup TTL must be positive, got %s", j.config.TTL)
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunCleanup(context.Background()); err != nil {
			j.logger.Error("snapshot cleanup failed", zap.Error(err))
		}
		j.EvictIdleSessions()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule snapshot cleanup: %w", err)
	}

	j.cron.Start()
	j.logger.Info("snapshot cleanup started",
		zap.String("schedule", j.config.Schedule),
		zap.Duration("ttl", j.config.TTL))
	return nil
}

func (j *SnapshotCleanupJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// RunCleanup performs one pass and returns how many slots were removed.
// Undecodable slots are removed as well.
func (j *SnapshotCleanupJob) RunCleanup(ctx context.Context) (int, error) {
	snapshots, err := j.store.ListSnapshots(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := j.now().Add(-j.config.TTL)
	removed := 0
	for _, snap := range snapshots {
		if snap.Session != nil && snap.Session.LastActivity.After(cutoff) {
			continue
		}
		if err := j.store.ForProfile(snap.Profile).ClearSnapshot(ctx); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("removed stale snapshots", zap.Int("count", removed))
	}
	return removed, nil
}

// EvictIdleSessions drops interview machines unused for SessionIdle. Their
// snapshots stay behind for RunCleanup to age out.
func (j *SnapshotCleanupJob) EvictIdleSessions() int {
	if j.config.Sessions == nil || j.config.SessionIdle <= 0 {
		return 0
	}
	evicted := j.config.Sessions.EvictIdle(j.config.SessionIdle)
	if evicted > 0 {
		j.logger.Info("evicted idle interview sessions", zap.Int("count", evicted))
	}
	return evicted
}
