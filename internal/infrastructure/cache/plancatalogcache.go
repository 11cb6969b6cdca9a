package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/shared/db"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const (
	activePlansKey     = "autopro:plans:active"
	basePlanCatalogTTL = 5 * time.Minute
	planCatalogJitter  = time.Minute // TTL range: 5-6 min (anti-stampede)
)

// cachedPlan is the JSON snapshot of a plan kept in Redis.
type cachedPlan struct {
	ID          uint      `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceKZT    int64     `json:"price_kzt"`
	PeriodDays  int       `json:"period_days"`
	FreeDays    int       `json:"free_days"`
	MaxCars     *int      `json:"max_cars"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CachedPlanRepository serves the public plan catalog from Redis and drops the
// cached list whenever a plan is written. Redis errors fall back to the
// wrapped repository.
type CachedPlanRepository struct {
	subscription.PlanRepository
	client redis.UniversalClient
	logger logger.Interface
}

func NewCachedPlanRepository(repo subscription.PlanRepository, client redis.UniversalClient, logger logger.Interface) *CachedPlanRepository {
	return &CachedPlanRepository{
		PlanRepository: repo,
		client:         client,
		logger:         logger,
	}
}

var _ subscription.PlanRepository = (*CachedPlanRepository)(nil)

func (r *CachedPlanRepository) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	plans, err := r.readActive(ctx)
	if err == nil {
		return plans, nil
	}
	if !errors.Is(err, redis.Nil) {
		r.logger.Warnw("plan catalog cache read failed", "error", err)
	}

	plans, err = r.PlanRepository.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.writeActive(ctx, plans); err != nil {
		r.logger.Warnw("plan catalog cache write failed", "error", err)
	}
	return plans, nil
}

func (r *CachedPlanRepository) Create(ctx context.Context, plan *subscription.Plan) error {
	if err := r.PlanRepository.Create(ctx, plan); err != nil {
		return err
	}
	r.invalidateAfterCommit(ctx)
	return nil
}

func (r *CachedPlanRepository) Update(ctx context.Context, plan *subscription.Plan) error {
	if err := r.PlanRepository.Update(ctx, plan); err != nil {
		return err
	}
	r.invalidateAfterCommit(ctx)
	return nil
}

// invalidateAfterCommit drops the snapshot only once the write is visible to
// readers.
func (r *CachedPlanRepository) invalidateAfterCommit(ctx context.Context) {
	db.AfterCommit(ctx, func() {
		r.Invalidate(context.WithoutCancel(ctx))
	})
}

// Invalidate drops the cached catalog.
func (r *CachedPlanRepository) Invalidate(ctx context.Context) {
	if err := r.client.Del(ctx, activePlansKey).Err(); err != nil {
		r.logger.Warnw("failed to invalidate plan catalog cache", "error", err)
		return
	}
	r.logger.Debugw("plan catalog cache invalidated")
}

func (r *CachedPlanRepository) readActive(ctx context.Context) ([]*subscription.Plan, error) {
	data, err := r.client.Get(ctx, activePlansKey).Bytes()
	if err != nil {
		return nil, err
	}

	var snapshot []cachedPlan
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan catalog: %w", err)
	}

	plans := make([]*subscription.Plan, 0, len(snapshot))
	for _, c := range snapshot {
		p, err := subscription.ReconstructPlan(subscription.PlanParams{
			ID:          c.ID,
			Code:        c.Code,
			Name:        c.Name,
			Description: c.Description,
			PriceKZT:    c.PriceKZT,
			PeriodDays:  c.PeriodDays,
			FreeDays:    c.FreeDays,
			MaxCars:     c.MaxCars,
			IsActive:    c.IsActive,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct cached plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func (r *CachedPlanRepository) writeActive(ctx context.Context, plans []*subscription.Plan) error {
	snapshot := make([]cachedPlan, 0, len(plans))
	for _, p := range plans {
		snapshot = append(snapshot, cachedPlan{
			ID:          p.ID(),
			Code:        p.Code(),
			Name:        p.Name(),
			Description: p.Description(),
			PriceKZT:    p.PriceKZT(),
			PeriodDays:  p.PeriodDays(),
			FreeDays:    p.FreeDays(),
			MaxCars:     p.MaxCars(),
			IsActive:    p.IsActive(),
			CreatedAt:   p.CreatedAt(),
			UpdatedAt:   p.UpdatedAt(),
		})
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal plan catalog: %w", err)
	}
	return r.client.Set(ctx, activePlansKey, data, planCatalogTTLWithJitter()).Err()
}

func planCatalogTTLWithJitter() time.Duration {
	return basePlanCatalogTTL + time.Duration(rand.Int64N(int64(planCatalogJitter)))
}
