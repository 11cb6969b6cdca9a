package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
	sharedConfig "github.com/autopro-kz/autopro/internal/shared/config"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const headerEventType = "event_type"

// NewSyncProducer builds a sarama producer that waits for all in-sync replicas.
func NewSyncProducer(cfg sharedConfig.KafkaConfig) (sarama.SyncProducer, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = true
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// KafkaPublisher writes events to one topic keyed by owner id, so events of
// one owner stay ordered within a partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   logger.Interface
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, logger logger.Interface) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

var _ paymentUsecases.EventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PublishSubscriptionActivated(ctx context.Context, evt paymentUsecases.SubscriptionActivatedEvent) error {
	return p.publish(ctx, EventSubscriptionActivated, evt.OwnerID, evt)
}

func (p *KafkaPublisher) PublishPaymentFailed(ctx context.Context, evt paymentUsecases.PaymentFailedEvent) error {
	return p.publish(ctx, EventPaymentFailed, evt.OwnerID, evt)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, ownerID uint, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(ownerID), 10)),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventType), Value: []byte(eventType)},
		},
		Timestamp: time.Now().UTC(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Errorw("failed to publish event", "event_type", eventType, "topic", p.topic, "error", err)
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.logger.Debugw("event published",
		"event_type", eventType,
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
