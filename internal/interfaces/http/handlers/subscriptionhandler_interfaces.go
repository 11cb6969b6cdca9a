package handlers

import (
	"context"

	entitlementUsecases "github.com/autopro-kz/autopro/internal/application/entitlement/usecases"
	subdto "github.com/autopro-kz/autopro/internal/application/subscription/dto"
	subUsecases "github.com/autopro-kz/autopro/internal/application/subscription/usecases"
)

// Use case interfaces for SubscriptionHandler

type listPlansUseCase interface {
	Execute(ctx context.Context, query subUsecases.ListPlansQuery) ([]*subdto.PlanDTO, error)
}

type getActiveSubscriptionUseCase interface {
	Execute(ctx context.Context, ownerID uint) (*subdto.SubscriptionSummaryDTO, error)
}

type buySubscriptionUseCase interface {
	Execute(ctx context.Context, cmd subUsecases.BuySubscriptionCommand) (*subdto.BuyResultDTO, error)
}

type canPublishListingUseCase interface {
	Execute(ctx context.Context, ownerID uint) (*entitlementUsecases.Decision, error)
}
