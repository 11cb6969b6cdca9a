package usecases

import (
	"context"
	"fmt"

	"github.com/autopro-kz/autopro/internal/domain/listing"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const (
	ReasonNoSubscription  = i18n.KeyNoSubscription
	ReasonCarLimitReached = i18n.KeyCarLimitReached
)

// Decision is the answer to "may this owner publish one more listing now".
// MaxCars is nil for unlimited plans.
type Decision struct {
	Allowed    bool    `json:"allowed"`
	Reason     *string `json:"reason"`
	PlanCode   *string `json:"plan_code"`
	ActiveCars int64   `json:"active_cars"`
	MaxCars    *int    `json:"max_cars"`
}

// Err converts a denial into the forbidden AppError carrying the reason key.
func (d *Decision) Err() error {
	if d.Allowed || d.Reason == nil {
		return nil
	}
	return apperrors.NewForbiddenError(*d.Reason)
}

// CanPublishListingUseCase is evaluated on every publish attempt; nothing is
// cached between calls.
type CanPublishListingUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	carRepo          listing.CarRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewCanPublishListingUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	carRepo listing.CarRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *CanPublishListingUseCase {
	return &CanPublishListingUseCase{
		subscriptionRepo: subscriptionRepo,
		carRepo:          carRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *CanPublishListingUseCase) Execute(ctx context.Context, ownerID uint) (*Decision, error) {
	sub, plan, err := uc.subscriptionRepo.GetActiveByOwner(ctx, ownerID, uc.clock.Now())
	if err != nil {
		uc.logger.Errorw("failed to get active subscription", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	if sub == nil || plan == nil {
		return deny(ReasonNoSubscription, nil, 0, nil), nil
	}

	code := plan.Code()
	count, err := uc.carRepo.CountActiveByAuthor(ctx, ownerID)
	if err != nil {
		uc.logger.Errorw("failed to count owner cars", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to count owner cars: %w", err)
	}

	maxCars := plan.MaxCars()
	if maxCars != nil && count >= int64(*maxCars) {
		uc.logger.Debugw("listing denied by car limit",
			"owner_id", ownerID,
			"plan_code", code,
			"active_cars", count,
			"max_cars", *maxCars,
		)
		return deny(ReasonCarLimitReached, &code, count, maxCars), nil
	}

	return &Decision{
		Allowed:    true,
		PlanCode:   &code,
		ActiveCars: count,
		MaxCars:    maxCars,
	}, nil
}

func deny(reason string, planCode *string, count int64, maxCars *int) *Decision {
	return &Decision{
		Allowed:    false,
		Reason:     &reason,
		PlanCode:   planCode,
		ActiveCars: count,
		MaxCars:    maxCars,
	}
}
