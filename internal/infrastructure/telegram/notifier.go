package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	listingUsecases "github.com/autopro-kz/autopro/internal/application/listing/usecases"
	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

type messageSender interface {
	SendMessage(ctx context.Context, chatID string, text string) error
}

// AdminNotifier posts new listings and successful payments to the admin chat.
type AdminNotifier struct {
	sender        messageSender
	chatID        string
	logger        logger.Interface
	newBackOff    func() backoff.BackOff
	maxRetryAfter time.Duration
}

func NewAdminNotifier(bot *BotService, chatID string, logger logger.Interface) *AdminNotifier {
	return newAdminNotifier(bot, chatID, logger, defaultBackOff)
}

func newAdminNotifier(sender messageSender, chatID string, logger logger.Interface, newBackOff func() backoff.BackOff) *AdminNotifier {
	return &AdminNotifier{
		sender:        sender,
		chatID:        chatID,
		logger:        logger,
		newBackOff:    newBackOff,
		maxRetryAfter: 30 * time.Second,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 20 * time.Second
	return backoff.WithMaxRetries(b, 4)
}

var (
	_ listingUsecases.NewListingNotifier   = (*AdminNotifier)(nil)
	_ paymentUsecases.AdminPaymentNotifier = (*AdminNotifier)(nil)
)

func (n *AdminNotifier) NotifyNewListing(ctx context.Context, notice listingUsecases.NewListingNotice) error {
	return n.send(ctx, "new_listing", FormatNewListing(notice))
}

func (n *AdminNotifier) NotifyPaymentSuccess(ctx context.Context, cmd paymentUsecases.AdminPaymentCommand) error {
	return n.send(ctx, "payment_success", FormatPaymentSuccess(cmd))
}

// send retries transport and 5xx failures. A 429 waits for retry_after
// when it fits within maxRetryAfter.
func (n *AdminNotifier) send(ctx context.Context, kind, text string) error {
	attempt := 0
	op := func() error {
		attempt++
		err := n.sender.SendMessage(ctx, n.chatID, text)
		if err == nil {
			return nil
		}
		if isNonRetryable(err) {
			return backoff.Permanent(err)
		}
		if wait := time.Duration(GetRetryAfter(err)) * time.Second; wait > 0 {
			if wait > n.maxRetryAfter {
				return backoff.Permanent(err)
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return backoff.Permanent(ctx.Err())
			}
		}
		n.logger.Warnw("telegram send failed, retrying", "kind", kind, "attempt", attempt, "error", err)
		return err
	}

	if err := backoff.Retry(op, backoff.WithContext(n.newBackOff(), ctx)); err != nil {
		return fmt.Errorf("failed to send %s notification: %w", kind, err)
	}

	n.logger.Debugw("telegram notification sent", "kind", kind, "attempts", attempt)
	return nil
}
