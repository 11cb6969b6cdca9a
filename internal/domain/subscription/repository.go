package subscription

import (
	"context"
	"time"

	vo "github.com/autopro-kz/autopro/internal/domain/subscription/valueobjects"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetByCode(ctx context.Context, code string) (*Plan, error)
	// ListActive returns active plans ordered by price ascending.
	ListActive(ctx context.Context) ([]*Plan, error)
	ListAll(ctx context.Context) ([]*Plan, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *OwnerSubscription) error
	Update(ctx context.Context, sub *OwnerSubscription) error
	GetByID(ctx context.Context, id uint) (*OwnerSubscription, error)
	// GetActiveByOwner returns the owner's current subscription at now together
	// with its plan, or (nil, nil, nil) when there is none.
	GetActiveByOwner(ctx context.Context, ownerID uint, now time.Time) (*OwnerSubscription, *Plan, error)
	// ExistsOtherWithStatus reports whether the owner has a subscription other
	// than excludeID in any of statuses.
	ExistsOtherWithStatus(ctx context.Context, ownerID, excludeID uint, statuses ...vo.SubscriptionStatus) (bool, error)
	ListLapsedActive(ctx context.Context, now time.Time, limit int) ([]*OwnerSubscription, error)
}
