package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrPlanNotFound            = errors.New("subscription plan not found")
	ErrPlanInactive            = errors.New("subscription plan inactive")
	ErrPlanCodeExists          = errors.New("plan code already exists")
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrNoActiveSubscription    = errors.New("no active subscription")
	ErrCarLimitReached         = errors.New("car limit reached")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
