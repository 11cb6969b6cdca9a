package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/autopro-kz/autopro/internal/shared/constants"
)

type PaymentTransactionModel struct {
	ID             uint           `gorm:"primarykey"`
	Provider       string         `gorm:"not null;size:50;uniqueIndex:idx_payment_transactions_provider_external,priority:1"`
	ExternalID     *string        `gorm:"size:100;uniqueIndex:idx_payment_transactions_provider_external,priority:2"`
	OrderID        string         `gorm:"not null;size:100;index"`
	Status         string         `gorm:"not null;default:created;size:50"`
	AmountKZT      int64          `gorm:"column:amount_kzt;not null"`
	Currency       string         `gorm:"not null;default:KZT;size:10"`
	OwnerID        uint           `gorm:"not null;index"`
	SubscriptionID uint           `gorm:"not null;index"`
	PaymentURL     *string        `gorm:"size:500"`
	RawData        datatypes.JSON `gorm:"column:raw_data"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PaymentTransactionModel) TableName() string {
	return constants.TablePaymentTransactions
}
