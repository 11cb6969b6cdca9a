// Package seeds loads the default subscription plans.
package seeds

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	subscriptionUsecases "github.com/autopro-kz/autopro/internal/application/subscription/usecases"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

//go:embed plans.yaml
var defaultPlans []byte

type PlanSeed struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	PriceKZT    int64  `yaml:"price_kzt"`
	PeriodDays  int    `yaml:"period_days"`
	FreeDays    int    `yaml:"free_days"`
	MaxCars     *int   `yaml:"max_cars"`
	IsActive    *bool  `yaml:"is_active"`
}

type planFile struct {
	Plans []PlanSeed `yaml:"plans"`
}

// PlanUpserter is satisfied by the plan upsert use case.
type PlanUpserter interface {
	Execute(ctx context.Context, cmd subscriptionUsecases.UpsertPlanCommand) (*subscriptionUsecases.UpsertPlanResult, error)
}

// ParsePlans decodes a plan seed file. Plans are active unless is_active is false.
func ParsePlans(data []byte) ([]PlanSeed, error) {
	var f planFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse plan seeds: %w", err)
	}
	if len(f.Plans) == 0 {
		return nil, fmt.Errorf("plan seed file has no plans")
	}
	return f.Plans, nil
}

// DefaultPlans returns the embedded LITE and PREMIUM plans.
func DefaultPlans() ([]PlanSeed, error) {
	return ParsePlans(defaultPlans)
}

// SeedPlans upserts every plan by code. Running it twice leaves one row per code.
func SeedPlans(ctx context.Context, upserter PlanUpserter, plans []PlanSeed, log logger.Interface) (created int, err error) {
	for _, p := range plans {
		active := true
		if p.IsActive != nil {
			active = *p.IsActive
		}
		res, err := upserter.Execute(ctx, subscriptionUsecases.UpsertPlanCommand{
			Code:        p.Code,
			Name:        p.Name,
			Description: p.Description,
			PriceKZT:    p.PriceKZT,
			PeriodDays:  p.PeriodDays,
			FreeDays:    p.FreeDays,
			MaxCars:     p.MaxCars,
			IsActive:    active,
		})
		if err != nil {
			return created, fmt.Errorf("failed to seed plan %s: %w", p.Code, err)
		}
		if res.Created {
			created++
		}
		log.Infow("plan seeded", "code", res.Plan.Code, "created", res.Created)
	}
	return created, nil
}
