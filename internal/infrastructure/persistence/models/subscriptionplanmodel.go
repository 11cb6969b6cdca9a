package models

import (
	"time"

	"github.com/autopro-kz/autopro/internal/shared/constants"
)

type SubscriptionPlanModel struct {
	ID          uint   `gorm:"primarykey"`
	Code        string `gorm:"uniqueIndex;not null;size:50"`
	Name        string `gorm:"not null;size:255"`
	Description string `gorm:"type:text"`
	PriceKZT    int64  `gorm:"column:price_kzt;not null"`
	PeriodDays  int    `gorm:"not null;default:30"`
	FreeDays    int    `gorm:"not null;default:0"`
	MaxCars     *int
	IsActive    bool `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SubscriptionPlanModel) TableName() string {
	return constants.TableSubscriptionPlans
}
