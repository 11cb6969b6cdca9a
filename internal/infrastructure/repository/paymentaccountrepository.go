package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/autopro-kz/autopro/internal/domain/payment"
	vo "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/mappers"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
	"github.com/autopro-kz/autopro/internal/shared/db"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/mapper"
)

type PaymentAccountRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPaymentAccountRepository(db *gorm.DB, logger logger.Interface) *PaymentAccountRepository {
	return &PaymentAccountRepository{db: db, logger: logger}
}

var _ payment.AccountRepository = (*PaymentAccountRepository)(nil)

func (r *PaymentAccountRepository) Create(ctx context.Context, account *payment.Account) error {
	model := mappers.AccountToModel(account)

	// Select("*") so a false is_active is written instead of the column default.
	if err := db.GetTxFromContext(ctx, r.db).Select("*").Omit("id").Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment account: %w", err)
	}

	account.SetID(model.ID)
	return nil
}

func (r *PaymentAccountRepository) Update(ctx context.Context, account *payment.Account) error {
	model := mappers.AccountToModel(account)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentAccountModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"login":           model.Login,
			"password":        model.Password,
			"merchant_id":     model.MerchantID,
			"callback_secret": model.CallbackSecret,
			"callback_url":    model.CallbackURL,
			"return_url":      model.ReturnURL,
			"success_url":     model.SuccessURL,
			"fail_url":        model.FailURL,
			"demo":            model.Demo,
			"is_active":       model.IsActive,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return payment.ErrAccountNotFound
	}
	return nil
}

func (r *PaymentAccountRepository) GetByID(ctx context.Context, id uint) (*payment.Account, error) {
	var model models.PaymentAccountModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get payment account: %w", err)
	}
	return mappers.AccountToDomain(&model), nil
}

// GetActiveByProvider prefers the most recently created account if more than
// one is active.
func (r *PaymentAccountRepository) GetActiveByProvider(ctx context.Context, provider vo.Provider) (*payment.Account, error) {
	var model models.PaymentAccountModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND is_active = ?", provider.String(), true).
		Order("id DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get active payment account: %w", err)
	}
	return mappers.AccountToDomain(&model), nil
}

func (r *PaymentAccountRepository) DeactivateOthers(ctx context.Context, provider vo.Provider, keepID uint) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentAccountModel{}).
		Where("provider = ? AND id <> ? AND is_active = ?", provider.String(), keepID, true).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate payment accounts: %w", err)
	}
	return nil
}

func (r *PaymentAccountRepository) List(ctx context.Context) ([]*payment.Account, error) {
	var accountModels []*models.PaymentAccountModel

	if err := db.GetTxFromContext(ctx, r.db).Order("id ASC").Find(&accountModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment accounts: %w", err)
	}
	return mapper.MapSlice(accountModels, mappers.AccountToDomain), nil
}
