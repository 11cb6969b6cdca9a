package valueobjects

type SubscriptionStatus string

const (
	StatusPending   SubscriptionStatus = "pending"
	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusFailed    SubscriptionStatus = "failed"
	StatusCancelled SubscriptionStatus = "cancelled"
)

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPending:   true,
	StatusActive:    true,
	StatusExpired:   true,
	StatusFailed:    true,
	StatusCancelled: true,
}

var transitions = map[SubscriptionStatus][]SubscriptionStatus{
	StatusPending:   {StatusActive, StatusFailed, StatusCancelled},
	StatusActive:    {StatusExpired, StatusFailed, StatusCancelled},
	StatusExpired:   {},
	StatusFailed:    {StatusCancelled},
	StatusCancelled: {},
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	return ValidStatuses[s]
}

func (s SubscriptionStatus) IsPending() bool {
	return s == StatusPending
}

func (s SubscriptionStatus) IsActive() bool {
	return s == StatusActive
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
