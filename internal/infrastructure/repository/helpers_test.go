package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return gdb
}

func nopLogger() logger.Interface {
	return logger.NewNop()
}

func intPtr(v int) *int {
	return &v
}

func createPlan(t *testing.T, repo *PlanRepository, code string, price int64, maxCars *int) *subscription.Plan {
	t.Helper()

	plan, err := subscription.NewPlan(subscription.PlanParams{
		Code:       code,
		Name:       code + " plan",
		PriceKZT:   price,
		PeriodDays: 30,
		FreeDays:   5,
		MaxCars:    maxCars,
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Create(t.Context(), plan))
	return plan
}
