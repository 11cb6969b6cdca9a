package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopro-kz/autopro/internal/domain/subscription"
	vo "github.com/autopro-kz/autopro/internal/domain/subscription/valueobjects"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

func activeSub(t *testing.T, id uint, validUntil time.Time) *subscription.OwnerSubscription {
	t.Helper()
	sub, err := subscription.ReconstructSubscription(subscription.SubscriptionParams{
		ID: id, OwnerID: 5, PlanID: 1, Status: vo.StatusActive, ValidUntil: &validUntil,
	})
	require.NoError(t, err)
	return sub
}

func TestExpireSubscriptionsUseCase(t *testing.T) {
	lapsed := []*subscription.OwnerSubscription{
		activeSub(t, 1, fixedNow.Add(-time.Hour)),
		activeSub(t, 2, fixedNow.Add(-48*time.Hour)),
	}
	var updated []uint
	calls := 0
	repo := &mockSubscriptionRepository{
		ListLapsedActiveFunc: func(ctx context.Context, now time.Time, limit int) ([]*subscription.OwnerSubscription, error) {
			calls++
			assert.Equal(t, fixedNow, now)
			if calls == 1 {
				return lapsed, nil
			}
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, sub *subscription.OwnerSubscription) error {
			updated = append(updated, sub.ID())
			return nil
		},
	}

	uc := NewExpireSubscriptionsUseCase(repo, biztime.FixedClock{T: fixedNow}, logger.NewNop())
	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint{1, 2}, updated)
	assert.Equal(t, vo.StatusExpired, lapsed[0].Status())
}

func TestExpireSubscriptionsUseCase_SkipsStillValid(t *testing.T) {
	stillValid := activeSub(t, 3, fixedNow.Add(time.Hour))
	repo := &mockSubscriptionRepository{
		ListLapsedActiveFunc: func(ctx context.Context, now time.Time, limit int) ([]*subscription.OwnerSubscription, error) {
			return []*subscription.OwnerSubscription{stillValid}, nil
		},
	}

	n, err := NewExpireSubscriptionsUseCase(repo, biztime.FixedClock{T: fixedNow}, logger.NewNop()).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, vo.StatusActive, stillValid.Status())
}
