package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/autopro-kz/autopro/internal/domain/payment"
	vo "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/mappers"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
	"github.com/autopro-kz/autopro/internal/shared/db"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/mapper"
)

type PaymentTransactionRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPaymentTransactionRepository(db *gorm.DB, logger logger.Interface) *PaymentTransactionRepository {
	return &PaymentTransactionRepository{db: db, logger: logger}
}

var _ payment.TransactionRepository = (*PaymentTransactionRepository)(nil)

func (r *PaymentTransactionRepository) Create(ctx context.Context, tx *payment.Transaction) error {
	model := mappers.TransactionToModel(tx)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment transaction: %w", err)
	}

	tx.SetID(model.ID)
	return nil
}

func (r *PaymentTransactionRepository) UpdateGatewayInfo(ctx context.Context, tx *payment.Transaction) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentTransactionModel{}).
		Where("id = ?", tx.ID()).
		Updates(map[string]interface{}{
			"external_id": tx.ExternalID(),
			"payment_url": tx.PaymentURL(),
			"updated_at":  tx.UpdatedAt().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update gateway info: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return payment.ErrTransactionNotFound
	}
	return nil
}

func (r *PaymentTransactionRepository) GetByID(ctx context.Context, id uint) (*payment.Transaction, error) {
	var model models.PaymentTransactionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get payment transaction: %w", err)
	}
	return mappers.TransactionToDomain(&model)
}

func (r *PaymentTransactionRepository) GetByProviderExternalID(ctx context.Context, provider vo.Provider, externalID string) (*payment.Transaction, error) {
	var model models.PaymentTransactionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND external_id = ?", provider.String(), externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get payment transaction by external id: %w", err)
	}
	return mappers.TransactionToDomain(&model)
}

// TransitionStatus is a compare-and-set on status = created, so concurrent
// callbacks for one transaction cannot both win.
func (r *PaymentTransactionRepository) TransitionStatus(ctx context.Context, id uint, to vo.TransactionStatus, rawPayload []byte, now time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentTransactionModel{}).
		Where("id = ? AND status = ?", id, vo.TransactionStatusCreated.String()).
		Updates(map[string]interface{}{
			"status":     to.String(),
			"raw_data":   mappers.RawPayloadJSON(rawPayload),
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition payment transaction %d: %w", id, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *PaymentTransactionRepository) ListBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*payment.Transaction, error) {
	var txModels []*models.PaymentTransactionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("id ASC").
		Find(&txModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment transactions: %w", err)
	}
	return mapper.MapSliceWithError(txModels, mappers.TransactionToDomain)
}
