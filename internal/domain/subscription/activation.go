package subscription

import (
	"time"

	"github.com/autopro-kz/autopro/internal/shared/biztime"
)

// ActivationWindow is the validity window granted by a successful payment.
type ActivationWindow struct {
	StartedAt  time.Time
	TrialUntil *time.Time
	ValidUntil time.Time
	TrialDays  int
	TotalDays  int
}

// ComputeActivationWindow derives the window for plan at now. Trial days are
// granted only when isFirst is true. The result depends on its arguments only.
func ComputeActivationWindow(plan *Plan, isFirst bool, now time.Time) ActivationWindow {
	trialDays := 0
	if isFirst {
		trialDays = plan.FreeDays()
	}
	totalDays := plan.PeriodDays() + trialDays

	w := ActivationWindow{
		StartedAt:  now,
		ValidUntil: now.Add(biztime.Days(totalDays)),
		TrialDays:  trialDays,
		TotalDays:  totalDays,
	}
	if trialDays > 0 {
		trialUntil := now.Add(biztime.Days(trialDays))
		w.TrialUntil = &trialUntil
	}
	return w
}
