// Package pubsub publishes subscription lifecycle events to Kafka and Redis.
package pubsub

import (
	"context"
	"errors"

	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
)

const (
	EventSubscriptionActivated = "subscription.activated"
	EventPaymentFailed         = "payment.failed"
)

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishSubscriptionActivated(context.Context, paymentUsecases.SubscriptionActivatedEvent) error {
	return nil
}

func (NopPublisher) PublishPaymentFailed(context.Context, paymentUsecases.PaymentFailedEvent) error {
	return nil
}

// Fanout delivers each event to every publisher and joins their errors.
type Fanout []paymentUsecases.EventPublisher

func (f Fanout) PublishSubscriptionActivated(ctx context.Context, evt paymentUsecases.SubscriptionActivatedEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishSubscriptionActivated(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) PublishPaymentFailed(ctx context.Context, evt paymentUsecases.PaymentFailedEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishPaymentFailed(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ paymentUsecases.EventPublisher = NopPublisher{}
	_ paymentUsecases.EventPublisher = Fanout(nil)
)
