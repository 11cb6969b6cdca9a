package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/shared/db"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

type countingPlanRepo struct {
	subscription.PlanRepository
	plans     []*subscription.Plan
	listCalls int
}

func (r *countingPlanRepo) ListActive(context.Context) ([]*subscription.Plan, error) {
	r.listCalls++
	return r.plans, nil
}

func (r *countingPlanRepo) Update(context.Context, *subscription.Plan) error { return nil }

func testPlan(t *testing.T) *subscription.Plan {
	t.Helper()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	maxCars := 3
	p, err := subscription.ReconstructPlan(subscription.PlanParams{
		ID: 1, Code: "LITE", Name: "Lite", PriceKZT: 4990, PeriodDays: 30, FreeDays: 5,
		MaxCars: &maxCars, IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	return p
}

func TestCachedPlanRepository_ServesFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	inner := &countingPlanRepo{plans: []*subscription.Plan{testPlan(t)}}
	repo := NewCachedPlanRepository(inner, client, logger.NewNop())
	ctx := context.Background()

	first, err := repo.ListActive(ctx)
	require.NoError(t, err)
	second, err := repo.ListActive(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.listCalls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Code(), second[0].Code())
	require.NotNil(t, second[0].MaxCars())
	assert.Equal(t, 3, *second[0].MaxCars())
	assert.True(t, mr.Exists(activePlansKey))
}

func TestCachedPlanRepository_UpdateInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	inner := &countingPlanRepo{plans: []*subscription.Plan{testPlan(t)}}
	repo := NewCachedPlanRepository(inner, client, logger.NewNop())
	ctx := context.Background()

	_, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, inner.plans[0]))
	assert.False(t, mr.Exists(activePlansKey))

	_, err = repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listCalls)
}

func TestCachedPlanRepository_InvalidatesAfterCommit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	inner := &countingPlanRepo{plans: []*subscription.Plan{testPlan(t)}}
	repo := NewCachedPlanRepository(inner, client, logger.NewNop())
	ctx := context.Background()

	_, err = repo.ListActive(ctx)
	require.NoError(t, err)

	tm := db.NewTransactionManager(gdb)
	err = tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, repo.Update(txCtx, inner.plans[0]))
		// a reader inside the open transaction window still gets the snapshot
		assert.True(t, mr.Exists(activePlansKey))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(activePlansKey))

	err = tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		_, err := repo.ListActive(txCtx)
		require.NoError(t, err)
		require.NoError(t, repo.Update(txCtx, inner.plans[0]))
		return errors.New("rolled back")
	})
	require.Error(t, err)
	assert.True(t, mr.Exists(activePlansKey))
}

func TestCachedPlanRepository_RedisDownFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	inner := &countingPlanRepo{plans: []*subscription.Plan{testPlan(t)}}
	plans, err := NewCachedPlanRepository(inner, client, logger.NewNop()).ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}
