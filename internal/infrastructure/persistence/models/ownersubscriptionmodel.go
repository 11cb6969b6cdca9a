package models

import (
	"time"

	"github.com/autopro-kz/autopro/internal/shared/constants"
)

type OwnerSubscriptionModel struct {
	ID         uint   `gorm:"primarykey"`
	OwnerID    uint   `gorm:"not null;index:idx_owner_subscriptions_owner_status,priority:1"`
	PlanID     uint   `gorm:"not null;index"`
	Status     string `gorm:"not null;default:pending;size:50;index:idx_owner_subscriptions_owner_status,priority:2"`
	StartedAt  *time.Time
	TrialUntil *time.Time
	ValidUntil *time.Time `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (OwnerSubscriptionModel) TableName() string {
	return constants.TableOwnerSubscriptions
}
