package usecases

import (
	"context"
	"fmt"

	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const expireBatchSize = 100

// ExpireSubscriptionsUseCase rewrites lapsed active subscriptions to expired.
// Reads never depend on it: the active-subscription query already filters on
// valid_until.
type ExpireSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewExpireSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

// Execute returns the number of subscriptions marked as expired.
func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := uc.clock.Now()
	marked := 0

	for {
		lapsed, err := uc.subscriptionRepo.ListLapsedActive(ctx, now, expireBatchSize)
		if err != nil {
			return marked, fmt.Errorf("failed to find lapsed subscriptions: %w", err)
		}
		if len(lapsed) == 0 {
			return marked, nil
		}

		progressed := 0
		for _, sub := range lapsed {
			if err := sub.Expire(now); err != nil {
				uc.logger.Warnw("failed to mark subscription as expired",
					"subscription_id", sub.ID(),
					"current_status", sub.Status().String(),
					"error", err,
				)
				continue
			}
			if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
				uc.logger.Errorw("failed to update expired subscription", "subscription_id", sub.ID(), "error", err)
				continue
			}
			marked++
			progressed++
		}

		if progressed == 0 || len(lapsed) < expireBatchSize {
			if marked > 0 {
				uc.logger.Infow("subscriptions expired", "count", marked)
			}
			return marked, nil
		}
	}
}
