package subscription

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxPlanCodeLength = 50
	maxPlanNameLength = 255
)

// Plan is a purchasable subscription tier. Price is stored in whole tenge.
type Plan struct {
	id          uint
	code        string
	name        string
	description string
	priceKZT    int64
	periodDays  int
	freeDays    int
	maxCars     *int
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

// PlanParams carries the fields accepted when creating or reconstructing a plan.
type PlanParams struct {
	ID          uint
	Code        string
	Name        string
	Description string
	PriceKZT    int64
	PeriodDays  int
	FreeDays    int
	MaxCars     *int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlan validates p and returns an active plan.
func NewPlan(p PlanParams, now time.Time) (*Plan, error) {
	code := strings.ToUpper(strings.TrimSpace(p.Code))
	plan := &Plan{
		code:        code,
		name:        strings.TrimSpace(p.Name),
		description: p.Description,
		priceKZT:    p.PriceKZT,
		periodDays:  p.PeriodDays,
		freeDays:    p.FreeDays,
		maxCars:     copyIntPtr(p.MaxCars),
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}
	if err := plan.validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// ReconstructPlan rebuilds a plan from storage without re-running creation defaults.
func ReconstructPlan(p PlanParams) (*Plan, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	return &Plan{
		id:          p.ID,
		code:        p.Code,
		name:        p.Name,
		description: p.Description,
		priceKZT:    p.PriceKZT,
		periodDays:  p.PeriodDays,
		freeDays:    p.FreeDays,
		maxCars:     copyIntPtr(p.MaxCars),
		isActive:    p.IsActive,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}, nil
}

func (p *Plan) validate() error {
	if p.code == "" {
		return fmt.Errorf("plan code is required")
	}
	if len(p.code) > maxPlanCodeLength {
		return fmt.Errorf("plan code too long (max %d characters)", maxPlanCodeLength)
	}
	if p.name == "" {
		return fmt.Errorf("plan name is required")
	}
	if len(p.name) > maxPlanNameLength {
		return fmt.Errorf("plan name too long (max %d characters)", maxPlanNameLength)
	}
	if p.priceKZT <= 0 {
		return fmt.Errorf("plan price must be positive")
	}
	if p.periodDays <= 0 {
		return fmt.Errorf("plan period must be positive")
	}
	if p.freeDays < 0 {
		return fmt.Errorf("free days cannot be negative")
	}
	if p.maxCars != nil && *p.maxCars < 0 {
		return fmt.Errorf("max cars cannot be negative")
	}
	return nil
}

// PlanPatch lists the only plan fields an administrator may change. Nil
// pointers leave a field untouched; ClearMaxCars makes the plan unlimited.
type PlanPatch struct {
	Name         *string
	Description  *string
	PriceKZT     *int64
	PeriodDays   *int
	FreeDays     *int
	MaxCars      *int
	ClearMaxCars bool
	IsActive     *bool
}

// ApplyPatch updates the plan and re-validates it. On error the plan is unchanged.
func (p *Plan) ApplyPatch(patch PlanPatch, now time.Time) error {
	next := *p
	if patch.Name != nil {
		next.name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		next.description = *patch.Description
	}
	if patch.PriceKZT != nil {
		next.priceKZT = *patch.PriceKZT
	}
	if patch.PeriodDays != nil {
		next.periodDays = *patch.PeriodDays
	}
	if patch.FreeDays != nil {
		next.freeDays = *patch.FreeDays
	}
	if patch.ClearMaxCars {
		next.maxCars = nil
	} else if patch.MaxCars != nil {
		next.maxCars = copyIntPtr(patch.MaxCars)
	}
	if patch.IsActive != nil {
		next.isActive = *patch.IsActive
	}
	if err := next.validate(); err != nil {
		return err
	}
	next.updatedAt = now
	*p = next
	return nil
}

func (p *Plan) Activate(now time.Time) {
	p.isActive = true
	p.updatedAt = now
}

func (p *Plan) Deactivate(now time.Time) {
	p.isActive = false
	p.updatedAt = now
}

// IsUnlimited reports whether the plan places no cap on listings.
func (p *Plan) IsUnlimited() bool {
	return p.maxCars == nil
}

func (p *Plan) SetID(id uint) {
	p.id = id
}

func (p *Plan) ID() uint { return p.id }
func (p *Plan) Code() string { return p.code }
func (p *Plan) Name() string { return p.name }
func (p *Plan) Description() string { return p.description }
func (p *Plan) PriceKZT() int64 { return p.priceKZT }
func (p *Plan) PeriodDays() int { return p.periodDays }
func (p *Plan) FreeDays() int { return p.freeDays }
func (p *Plan) MaxCars() *int { return copyIntPtr(p.maxCars) }
func (p *Plan) IsActive() bool { return p.isActive }
func (p *Plan) CreatedAt() time.Time { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time { return p.updatedAt }

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
