package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autopro-kz/autopro/internal/application/payment/paymentgateway"
	"github.com/autopro-kz/autopro/internal/application/subscription/dto"
	"github.com/autopro-kz/autopro/internal/domain/payment"
	paymentVO "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/db"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

// PurchaseMetrics records outbound payment creation.
type PurchaseMetrics interface {
	PaymentCreated(provider string)
	GatewayFailed(provider string)
	ObserveGatewayLatency(provider string, d time.Duration)
}

type BuySubscriptionCommand struct {
	OwnerID  uint
	PlanID   uint
	Provider string
}

type BuySubscriptionUseCase struct {
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	transactionRepo  payment.TransactionRepository
	accountRepo      payment.AccountRepository
	gateways         *paymentgateway.Registry
	txMgr            db.Transactor
	clock            biztime.Clock
	metrics          PurchaseMetrics // Optional
	logger           logger.Interface
}

func NewBuySubscriptionUseCase(
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	transactionRepo payment.TransactionRepository,
	accountRepo payment.AccountRepository,
	gateways *paymentgateway.Registry,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *BuySubscriptionUseCase {
	return &BuySubscriptionUseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		transactionRepo:  transactionRepo,
		accountRepo:      accountRepo,
		gateways:         gateways,
		txMgr:            txMgr,
		clock:            clock,
		logger:           logger,
	}
}

// SetMetrics sets the metrics recorder (optional dependency injection)
func (uc *BuySubscriptionUseCase) SetMetrics(m PurchaseMetrics) {
	uc.metrics = m
}

// Execute records a pending subscription and a created transaction, then asks
// the provider for a payment URL. The records are committed before the
// provider call, so a gateway failure leaves them pending and the owner can
// simply buy again.
func (uc *BuySubscriptionUseCase) Execute(ctx context.Context, cmd BuySubscriptionCommand) (*dto.BuyResultDTO, error) {
	provider := paymentVO.ParseProvider(cmd.Provider)
	gateway, ok := uc.gateways.Get(provider)
	if !ok {
		return nil, apperrors.NewBadRequestError(i18n.KeyProviderNotSupported, fmt.Sprintf("provider %q", cmd.Provider))
	}

	var (
		plan *subscription.Plan
		sub  *subscription.OwnerSubscription
		txn  *payment.Transaction
	)
	now := uc.clock.Now()

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		plan, err = uc.planRepo.GetByID(txCtx, cmd.PlanID)
		if err != nil {
			return err
		}
		if !plan.IsActive() {
			return subscription.ErrPlanInactive
		}

		sub, err = subscription.NewPendingSubscription(cmd.OwnerID, plan.ID(), now)
		if err != nil {
			return err
		}
		if err := uc.subscriptionRepo.Create(txCtx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		txn, err = payment.NewTransaction(provider, cmd.OwnerID, sub.ID(), paymentVO.NewMoney(plan.PriceKZT(), paymentVO.CurrencyKZT), now)
		if err != nil {
			return err
		}
		if err := uc.transactionRepo.Create(txCtx, txn); err != nil {
			return fmt.Errorf("failed to create payment transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, subscription.ErrPlanNotFound) || errors.Is(err, subscription.ErrPlanInactive) {
			return nil, apperrors.NewNotFoundError(i18n.KeyPlanNotFound)
		}
		uc.logger.Errorw("failed to record purchase", "owner_id", cmd.OwnerID, "plan_id", cmd.PlanID, "error", err)
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	account, err := uc.accountRepo.GetActiveByProvider(ctx, provider)
	if err != nil {
		if errors.Is(err, payment.ErrAccountNotFound) {
			err = paymentgateway.NewGatewayError(provider, "no active payment account", err)
		}
		return nil, uc.gatewayFailure(provider, txn, err)
	}

	start := time.Now()
	resp, err := gateway.CreatePayment(ctx, paymentgateway.CreatePaymentRequest{
		Account:      account,
		Transaction:  txn,
		Subscription: sub,
		Plan:         plan,
	})
	if uc.metrics != nil {
		uc.metrics.ObserveGatewayLatency(provider.String(), time.Since(start))
	}
	if err != nil {
		return nil, uc.gatewayFailure(provider, txn, err)
	}

	txn.SetGatewayInfo(resp.ExternalID, resp.PaymentURL, uc.clock.Now())
	if err := uc.transactionRepo.UpdateGatewayInfo(ctx, txn); err != nil {
		uc.logger.Errorw("failed to store gateway response", "transaction_id", txn.ID(), "error", err)
		return nil, fmt.Errorf("failed to store gateway response: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.PaymentCreated(provider.String())
	}
	uc.logger.Infow("payment created",
		"transaction_id", txn.ID(),
		"subscription_id", sub.ID(),
		"owner_id", cmd.OwnerID,
		"plan_code", plan.Code(),
		"amount_kzt", plan.PriceKZT(),
		"external_id", resp.ExternalID,
	)

	return &dto.BuyResultDTO{
		TransactionID: txn.ID(),
		PaymentURL:    resp.PaymentURL,
	}, nil
}

func (uc *BuySubscriptionUseCase) gatewayFailure(provider paymentVO.Provider, txn *payment.Transaction, err error) error {
	if uc.metrics != nil {
		uc.metrics.GatewayFailed(provider.String())
	}
	uc.logger.Errorw("payment gateway failed",
		"provider", provider,
		"transaction_id", txn.ID(),
		"subscription_id", txn.SubscriptionID(),
		"error", err,
	)
	if errors.Is(err, paymentgateway.ErrGateway) {
		return apperrors.NewBadGatewayError(i18n.KeyGatewayError, err.Error())
	}
	return fmt.Errorf("failed to create payment: %w", err)
}
