package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validPlanParams() PlanParams {
	return PlanParams{
		Code:        "lite",
		Name:        "Lite",
		Description: "up to **3** cars",
		PriceKZT:    5000,
		PeriodDays:  30,
		FreeDays:    7,
		MaxCars:     intPtr(3),
	}
}

func TestNewPlan(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("normalizes code and defaults to active", func(t *testing.T) {
		plan, err := NewPlan(validPlanParams(), now)
		require.NoError(t, err)
		assert.Equal(t, "LITE", plan.Code())
		assert.True(t, plan.IsActive())
		assert.False(t, plan.IsUnlimited())
		assert.Equal(t, 3, *plan.MaxCars())
		assert.Equal(t, now, plan.CreatedAt())
	})

	t.Run("nil max cars is unlimited", func(t *testing.T) {
		p := validPlanParams()
		p.MaxCars = nil
		plan, err := NewPlan(p, now)
		require.NoError(t, err)
		assert.True(t, plan.IsUnlimited())
		assert.Nil(t, plan.MaxCars())
	})

	tests := []struct {
		name   string
		mutate func(*PlanParams)
	}{
		{"empty code", func(p *PlanParams) { p.Code = " " }},
		{"empty name", func(p *PlanParams) { p.Name = "" }},
		{"zero price", func(p *PlanParams) { p.PriceKZT = 0 }},
		{"zero period", func(p *PlanParams) { p.PeriodDays = 0 }},
		{"negative free days", func(p *PlanParams) { p.FreeDays = -1 }},
		{"negative max cars", func(p *PlanParams) { p.MaxCars = intPtr(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlanParams()
			tt.mutate(&p)
			_, err := NewPlan(p, now)
			assert.Error(t, err)
		})
	}
}

func TestReconstructPlan_RequiresID(t *testing.T) {
	_, err := ReconstructPlan(validPlanParams())
	assert.Error(t, err)
}

func TestPlan_ApplyPatch(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	t.Run("updates allowed fields", func(t *testing.T) {
		plan, err := NewPlan(validPlanParams(), now)
		require.NoError(t, err)

		price := int64(7000)
		active := false
		require.NoError(t, plan.ApplyPatch(PlanPatch{PriceKZT: &price, IsActive: &active, ClearMaxCars: true}, later))

		assert.Equal(t, int64(7000), plan.PriceKZT())
		assert.False(t, plan.IsActive())
		assert.True(t, plan.IsUnlimited())
		assert.Equal(t, later, plan.UpdatedAt())
		assert.Equal(t, "LITE", plan.Code())
	})

	t.Run("invalid patch leaves plan unchanged", func(t *testing.T) {
		plan, err := NewPlan(validPlanParams(), now)
		require.NoError(t, err)

		period := 0
		name := "Renamed"
		err = plan.ApplyPatch(PlanPatch{Name: &name, PeriodDays: &period}, later)
		require.Error(t, err)
		assert.Equal(t, "Lite", plan.Name())
		assert.Equal(t, 30, plan.PeriodDays())
		assert.Equal(t, now, plan.UpdatedAt())
	})
}
