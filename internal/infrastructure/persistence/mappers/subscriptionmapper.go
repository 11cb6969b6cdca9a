package mappers

import (
	"fmt"

	"github.com/autopro-kz/autopro/internal/domain/subscription"
	vo "github.com/autopro-kz/autopro/internal/domain/subscription/valueobjects"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
)

func PlanToModel(p *subscription.Plan) *models.SubscriptionPlanModel {
	return &models.SubscriptionPlanModel{
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
	}
}

func PlanToDomain(m *models.SubscriptionPlanModel) (*subscription.Plan, error) {
	p, err := subscription.ReconstructPlan(subscription.PlanParams{
		ID:          m.ID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		PriceKZT:    m.PriceKZT,
		PeriodDays:  m.PeriodDays,
		FreeDays:    m.FreeDays,
		MaxCars:     m.MaxCars,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan: %w", err)
	}
	return p, nil
}

func SubscriptionToModel(s *subscription.OwnerSubscription) *models.OwnerSubscriptionModel {
	return &models.OwnerSubscriptionModel{
		ID:         s.ID(),
		OwnerID:    s.OwnerID(),
		PlanID:     s.PlanID(),
		Status:     s.Status().String(),
		StartedAt:  s.StartedAt(),
		TrialUntil: s.TrialUntil(),
		ValidUntil: s.ValidUntil(),
		CreatedAt:  s.CreatedAt(),
		UpdatedAt:  s.UpdatedAt(),
	}
}

func SubscriptionToDomain(m *models.OwnerSubscriptionModel) (*subscription.OwnerSubscription, error) {
	s, err := subscription.ReconstructSubscription(subscription.SubscriptionParams{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		PlanID:     m.PlanID,
		Status:     vo.SubscriptionStatus(m.Status),
		StartedAt:  utcPtr(m.StartedAt),
		TrialUntil: utcPtr(m.TrialUntil),
		ValidUntil: utcPtr(m.ValidUntil),
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription: %w", err)
	}
	return s, nil
}
