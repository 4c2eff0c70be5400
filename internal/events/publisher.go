// Package events announces completed interviews to other processes.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"prepcoach/internal/models"
)

// CompletedChannel is the redis channel completion events are published on.
const CompletedChannel = "interview_completed"

type Publisher interface {
	Publish(ctx context.Context, event models.CompletionEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.CompletionEvent) error { return nil }

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: CompletedChannel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event models.CompletionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode completion event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.channel, err)
	}
	return nil
}

type RabbitConfig struct {
	URL   string
	Queue string
	// TTL is the per-message expiration in milliseconds; zero disables it.
	TTL int
}

// RabbitPublisher opens a connection per publish and declares a durable queue.
type RabbitPublisher struct {
	cfg    RabbitConfig
	logger *zap.Logger
}

func NewRabbitPublisher(cfg RabbitConfig, logger *zap.Logger) *RabbitPublisher {
	if cfg.Queue == "" {
		cfg.Queue = CompletedChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RabbitPublisher{cfg: cfg, logger: logger}
}

func (p *RabbitPublisher) Publish(ctx context.Context, event models.CompletionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode completion event: %w", err)
	}

	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", p.cfg.Queue, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}
	if p.cfg.TTL > 0 {
		msg.Expiration = fmt.Sprintf("%d", p.cfg.TTL)
	}
	if err := ch.PublishWithContext(ctx, "", q.Name, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", q.Name, err)
	}

	p.logger.Debug("completion event sent",
		zap.String("queue", q.Name),
		zap.String("session_id", event.SessionID))
	return nil
}

// Multi publishes to every publisher and returns the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event models.CompletionEvent) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
