package subscription

import (
	"fmt"
	"time"

	vo "github.com/autopro-kz/autopro/internal/domain/subscription/valueobjects"
)

// OwnerSubscription is one purchase attempt and its lifecycle for an owner.
type OwnerSubscription struct {
	id         uint
	ownerID    uint
	planID     uint
	status     vo.SubscriptionStatus
	startedAt  *time.Time
	trialUntil *time.Time
	validUntil *time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

// NewPendingSubscription records purchase intent. No validity window is set
// until a payment succeeds.
func NewPendingSubscription(ownerID, planID uint, now time.Time) (*OwnerSubscription, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("owner ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	return &OwnerSubscription{
		ownerID:   ownerID,
		planID:    planID,
		status:    vo.StatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type SubscriptionParams struct {
	ID         uint
	OwnerID    uint
	PlanID     uint
	Status     vo.SubscriptionStatus
	StartedAt  *time.Time
	TrialUntil *time.Time
	ValidUntil *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func ReconstructSubscription(p SubscriptionParams) (*OwnerSubscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	return &OwnerSubscription{
		id:         p.ID,
		ownerID:    p.OwnerID,
		planID:     p.PlanID,
		status:     p.Status,
		startedAt:  p.StartedAt,
		trialUntil: p.TrialUntil,
		validUntil: p.ValidUntil,
		createdAt:  p.CreatedAt,
		updatedAt:  p.UpdatedAt,
	}, nil
}

// Activate applies w. Only a pending subscription can be activated, so a
// repeated activation never extends valid_until.
func (s *OwnerSubscription) Activate(w ActivationWindow) error {
	if !s.status.CanTransitionTo(vo.StatusActive) {
		return ErrInvalidTransition(s.status.String(), vo.StatusActive.String())
	}
	startedAt := w.StartedAt
	validUntil := w.ValidUntil
	s.status = vo.StatusActive
	s.startedAt = &startedAt
	s.trialUntil = w.TrialUntil
	s.validUntil = &validUntil
	s.updatedAt = w.StartedAt
	return nil
}

// MarkFailed flips a pending subscription to failed and reports whether it
// changed anything. Subscriptions in any other state are left alone.
func (s *OwnerSubscription) MarkFailed(now time.Time) bool {
	if !s.status.IsPending() {
		return false
	}
	s.status = vo.StatusFailed
	s.updatedAt = now
	return true
}

// Expire marks an active subscription whose window has lapsed.
func (s *OwnerSubscription) Expire(now time.Time) error {
	if !s.status.IsActive() {
		return ErrInvalidTransition(s.status.String(), vo.StatusExpired.String())
	}
	if s.validUntil != nil && !s.validUntil.Before(now) {
		return fmt.Errorf("subscription %d is still valid until %s", s.id, s.validUntil.Format(time.RFC3339))
	}
	s.status = vo.StatusExpired
	s.updatedAt = now
	return nil
}

func (s *OwnerSubscription) Cancel(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}
	s.status = vo.StatusCancelled
	s.updatedAt = now
	return nil
}

// IsCurrentAt is the in-memory form of the active-subscription predicate:
// status active and valid_until not before now.
func (s *OwnerSubscription) IsCurrentAt(now time.Time) bool {
	return s.status.IsActive() && s.validUntil != nil && !s.validUntil.Before(now)
}

func (s *OwnerSubscription) SetID(id uint) {
	s.id = id
}

func (s *OwnerSubscription) ID() uint { return s.id }
func (s *OwnerSubscription) OwnerID() uint { return s.ownerID }
func (s *OwnerSubscription) PlanID() uint { return s.planID }
func (s *OwnerSubscription) Status() vo.SubscriptionStatus { return s.status }
func (s *OwnerSubscription) StartedAt() *time.Time { return s.startedAt }
func (s *OwnerSubscription) TrialUntil() *time.Time { return s.trialUntil }
func (s *OwnerSubscription) ValidUntil() *time.Time { return s.validUntil }
func (s *OwnerSubscription) CreatedAt() time.Time { return s.createdAt }
func (s *OwnerSubscription) UpdatedAt() time.Time { return s.updatedAt }
