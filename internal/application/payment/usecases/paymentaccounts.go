package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopro-kz/autopro/internal/application/payment/dto"
	"github.com/autopro-kz/autopro/internal/domain/payment"
	paymentVO "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/db"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/mapper"
)

type CreatePaymentAccountCommand struct {
	Provider       string
	Login          string
	Password       string
	MerchantID     string
	CallbackSecret string
	CallbackURL    *string
	ReturnURL      *string
	SuccessURL     *string
	FailURL        *string
	Demo           bool
	IsActive       bool
}

type UpdatePaymentAccountCommand struct {
	AccountID uint
	Patch     payment.AccountPatch
}

// PaymentAccountsUseCase manages merchant credentials. At most one account per
// provider is active; activating one deactivates the rest in the same transaction.
type PaymentAccountsUseCase struct {
	accountRepo payment.AccountRepository
	txMgr       db.Transactor
	clock       biztime.Clock
	logger      logger.Interface
}

func NewPaymentAccountsUseCase(
	accountRepo payment.AccountRepository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *PaymentAccountsUseCase {
	return &PaymentAccountsUseCase{
		accountRepo: accountRepo,
		txMgr:       txMgr,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *PaymentAccountsUseCase) List(ctx context.Context) ([]*dto.PaymentAccountDTO, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list payment accounts", "error", err)
		return nil, fmt.Errorf("failed to list payment accounts: %w", err)
	}
	result := mapper.MapSlice(accounts, dto.ToPaymentAccountDTO)
	if result == nil {
		result = []*dto.PaymentAccountDTO{}
	}
	return result, nil
}

func (uc *PaymentAccountsUseCase) Create(ctx context.Context, cmd CreatePaymentAccountCommand) (*dto.PaymentAccountDTO, error) {
	account, err := payment.NewAccount(payment.AccountParams{
		Provider:       paymentVO.ParseProvider(cmd.Provider),
		Login:          cmd.Login,
		Password:       cmd.Password,
		MerchantID:     cmd.MerchantID,
		CallbackSecret: cmd.CallbackSecret,
		CallbackURL:    cmd.CallbackURL,
		ReturnURL:      cmd.ReturnURL,
		SuccessURL:     cmd.SuccessURL,
		FailURL:        cmd.FailURL,
		Demo:           cmd.Demo,
		IsActive:       cmd.IsActive,
	}, uc.clock.Now())
	if err != nil {
		return nil, apperrors.NewValidationError(i18n.KeyInvalidRequest, err.Error())
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.accountRepo.Create(txCtx, account); err != nil {
			return fmt.Errorf("failed to create payment account: %w", err)
		}
		if account.IsActive() {
			return uc.accountRepo.DeactivateOthers(txCtx, account.Provider(), account.ID())
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to create payment account", "provider", cmd.Provider, "error", err)
		return nil, err
	}

	uc.logger.Infow("payment account created",
		"account_id", account.ID(),
		"provider", account.Provider().String(),
		"active", account.IsActive(),
	)
	return dto.ToPaymentAccountDTO(account), nil
}

func (uc *PaymentAccountsUseCase) Update(ctx context.Context, cmd UpdatePaymentAccountCommand) (*dto.PaymentAccountDTO, error) {
	var account *payment.Account

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		found, err := uc.accountRepo.GetByID(txCtx, cmd.AccountID)
		if err != nil {
			if errors.Is(err, payment.ErrAccountNotFound) {
				return apperrors.NewNotFoundError(i18n.KeyAccountNotFound)
			}
			return fmt.Errorf("failed to get payment account: %w", err)
		}
		if err := found.ApplyPatch(cmd.Patch, uc.clock.Now()); err != nil {
			return apperrors.NewValidationError(i18n.KeyInvalidRequest, err.Error())
		}
		if err := uc.accountRepo.Update(txCtx, found); err != nil {
			return fmt.Errorf("failed to update payment account: %w", err)
		}
		if found.IsActive() {
			if err := uc.accountRepo.DeactivateOthers(txCtx, found.Provider(), found.ID()); err != nil {
				return fmt.Errorf("failed to deactivate other accounts: %w", err)
			}
		}
		account = found
		return nil
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			uc.logger.Errorw("failed to update payment account", "account_id", cmd.AccountID, "error", err)
		}
		return nil, err
	}

	uc.logger.Infow("payment account updated", "account_id", account.ID(), "active", account.IsActive())
	return dto.ToPaymentAccountDTO(account), nil
}
