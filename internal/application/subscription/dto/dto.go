package dto

import (
	"time"

	"github.com/autopro-kz/autopro/internal/domain/subscription"
)

type PlanDTO struct {
	ID              uint   `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DescriptionHTML string `json:"description_html,omitempty"`
	PriceKZT        int64  `json:"price_kzt"`
	PeriodDays      int    `json:"period_days"`
	FreeDays        int    `json:"free_days"`
	MaxCars         *int   `json:"max_cars"`
	IsActive        bool   `json:"is_active"`
}

type SubscriptionSummaryDTO struct {
	ID         uint       `json:"id"`
	Status     string     `json:"status"`
	Plan       *PlanDTO   `json:"plan"`
	StartedAt  *time.Time `json:"started_at"`
	TrialUntil *time.Time `json:"trial_until"`
	ValidUntil *time.Time `json:"valid_until"`
}

type BuyResultDTO struct {
	TransactionID uint   `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
}

// DescriptionRenderer turns a markdown description into sanitized HTML.
type DescriptionRenderer interface {
	Render(markdown string) (string, error)
}

func ToPlanDTO(plan *subscription.Plan) *PlanDTO {
	if plan == nil {
		return nil
	}
	return &PlanDTO{
		ID:          plan.ID(),
		Code:        plan.Code(),
		Name:        plan.Name(),
		Description: plan.Description(),
		PriceKZT:    plan.PriceKZT(),
		PeriodDays:  plan.PeriodDays(),
		FreeDays:    plan.FreeDays(),
		MaxCars:     plan.MaxCars(),
		IsActive:    plan.IsActive(),
	}
}

// ToPlanDTOWithHTML is ToPlanDTO plus the rendered description. A render
// failure leaves DescriptionHTML empty.
func ToPlanDTOWithHTML(plan *subscription.Plan, renderer DescriptionRenderer) *PlanDTO {
	d := ToPlanDTO(plan)
	if d == nil || renderer == nil || d.Description == "" {
		return d
	}
	if html, err := renderer.Render(d.Description); err == nil {
		d.DescriptionHTML = html
	}
	return d
}

func ToSubscriptionSummaryDTO(sub *subscription.OwnerSubscription, plan *subscription.Plan, renderer DescriptionRenderer) *SubscriptionSummaryDTO {
	if sub == nil {
		return nil
	}
	return &SubscriptionSummaryDTO{
		ID:         sub.ID(),
		Status:     sub.Status().String(),
		Plan:       ToPlanDTOWithHTML(plan, renderer),
		StartedAt:  sub.StartedAt(),
		TrialUntil: sub.TrialUntil(),
		ValidUntil: sub.ValidUntil(),
	}
}
