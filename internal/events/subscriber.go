package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"prepcoach/internal/models"
)

// StatsRecorder folds a completed interview into a user's profile.
type StatsRecorder interface {
	RecordInterview(userID string, score float64, completedAt time.Time) error
}

// CompletionSubscriber consumes completion events from redis and updates
// profile stats.
type CompletionSubscriber struct {
	rdb        *redis.Client
	users      StatsRecorder
	logger     *zap.Logger
	instanceID string
	ready      chan struct{}
}

func NewCompletionSubscriber(rdb *redis.Client, users StatsRecorder, logger *zap.Logger) *CompletionSubscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()[:8]
	return &CompletionSubscriber{
		rdb:        rdb,
		users:      users,
		logger:     logger.With(zap.String("instance", id)),
		instanceID: id,
		ready:      make(chan struct{}),
	}
}

// Ready is closed once the subscription is confirmed.
func (s *CompletionSubscriber) Ready() <-chan struct{} { return s.ready }

// Run blocks until ctx is done or the subscription closes.
func (s *CompletionSubscriber) Run(ctx context.Context) error {
	sub := s.rdb.Subscribe(ctx, CompletedChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", CompletedChannel, err)
	}
	close(s.ready)
	s.logger.Info("subscribed to completion events", zap.String("channel", CompletedChannel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := s.Handle(msg.Payload); err != nil {
				s.logger.Error("failed to handle completion event", zap.Error(err))
			}
		}
	}
}

func (s *CompletionSubscriber) Handle(payload string) error {
	var event models.CompletionEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return fmt.Errorf("failed to decode completion event: %w", err)
	}
	if event.UserID == "" {
		return fmt.Errorf("completion event %s has no user", event.SessionID)
	}
	completedAt := event.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}
	if err := s.users.RecordInterview(event.UserID, event.OverallScore, completedAt); err != nil {
		return fmt.Errorf("failed to record interview for user %s: %w", event.UserID, err)
	}
	s.logger.Info("recorded completed interview",
		zap.String("user_id", event.UserID),
		zap.String("session_id", event.SessionID),
		zap.Float64("overall_score", event.OverallScore))
	return nil
}
