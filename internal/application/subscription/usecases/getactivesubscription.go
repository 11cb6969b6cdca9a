package usecases

import (
	"context"
	"fmt"

	"github.com/autopro-kz/autopro/internal/application/subscription/dto"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

type GetActiveSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	renderer         dto.DescriptionRenderer
	clock            biztime.Clock
	logger           logger.Interface
}

func NewGetActiveSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	renderer dto.DescriptionRenderer,
	clock biztime.Clock,
	logger logger.Interface,
) *GetActiveSubscriptionUseCase {
	return &GetActiveSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		renderer:         renderer,
		clock:            clock,
		logger:           logger,
	}
}

// Execute returns the owner's current subscription, or nil when there is none.
func (uc *GetActiveSubscriptionUseCase) Execute(ctx context.Context, ownerID uint) (*dto.SubscriptionSummaryDTO, error) {
	sub, plan, err := uc.subscriptionRepo.GetActiveByOwner(ctx, ownerID, uc.clock.Now())
	if err != nil {
		uc.logger.Errorw("failed to get active subscription", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	if sub == nil {
		return nil, nil
	}
	return dto.ToSubscriptionSummaryDTO(sub, plan, uc.renderer), nil
}
