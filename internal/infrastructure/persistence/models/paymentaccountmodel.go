package models

import (
	"time"

	"github.com/autopro-kz/autopro/internal/shared/constants"
)

type PaymentAccountModel struct {
	ID             uint    `gorm:"primarykey"`
	Provider       string  `gorm:"not null;size:50;index"`
	Login          string  `gorm:"not null;size:255"`
	Password       string  `gorm:"not null;size:255"`
	MerchantID     string  `gorm:"not null;size:100"`
	CallbackSecret string  `gorm:"not null;size:255"`
	CallbackURL    *string `gorm:"size:500"`
	ReturnURL      *string `gorm:"size:500"`
	SuccessURL     *string `gorm:"size:500"`
	FailURL        *string `gorm:"size:500"`
	Demo           bool    `gorm:"not null;default:false"`
	IsActive       bool    `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PaymentAccountModel) TableName() string {
	return constants.TablePaymentAccounts
}
