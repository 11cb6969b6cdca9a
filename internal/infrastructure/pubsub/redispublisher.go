package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const SubscriptionChangeChannel = "autopro:subscription:change"

// ChangeMessage is the envelope sent on SubscriptionChangeChannel.
type ChangeMessage struct {
	EventType string          `json:"event_type"`
	OwnerID   uint            `json:"owner_id"`
	Payload   json.RawMessage `json:"payload"`
}

// RedisPublisher announces subscription changes to other instances over
// Redis Pub/Sub.
type RedisPublisher struct {
	client redis.UniversalClient
	logger logger.Interface
}

func NewRedisPublisher(client redis.UniversalClient, logger logger.Interface) *RedisPublisher {
	return &RedisPublisher{client: client, logger: logger}
}

var _ paymentUsecases.EventPublisher = (*RedisPublisher)(nil)

func (b *RedisPublisher) PublishSubscriptionActivated(ctx context.Context, evt paymentUsecases.SubscriptionActivatedEvent) error {
	return b.publish(ctx, EventSubscriptionActivated, evt.OwnerID, evt)
}

func (b *RedisPublisher) PublishPaymentFailed(ctx context.Context, evt paymentUsecases.PaymentFailedEvent) error {
	return b.publish(ctx, EventPaymentFailed, evt.OwnerID, evt)
}

func (b *RedisPublisher) publish(ctx context.Context, eventType string, ownerID uint, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	data, err := json.Marshal(ChangeMessage{EventType: eventType, OwnerID: ownerID, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, SubscriptionChangeChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish subscription change event",
			"event_type", eventType,
			"owner_id", ownerID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("subscription change event published",
		"event_type", eventType,
		"owner_id", ownerID,
	)
	return nil
}
