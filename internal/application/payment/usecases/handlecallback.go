package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autopro-kz/autopro/internal/application/payment/paymentgateway"
	"github.com/autopro-kz/autopro/internal/domain/payment"
	paymentVO "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	vo "github.com/autopro-kz/autopro/internal/domain/subscription/valueobjects"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/db"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/goroutine"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const sideEffectTimeout = 30 * time.Second

// CallbackResult describes what a callback did. Every result is acknowledged
// to the provider.
type CallbackResult string

const (
	CallbackApplied   CallbackResult = "applied"
	CallbackDuplicate CallbackResult = "duplicate"
	CallbackUnmatched CallbackResult = "unmatched"
	CallbackMalformed CallbackResult = "malformed"
)

// AdminPaymentNotifier is the interface for notifying admins about payment success
type AdminPaymentNotifier interface {
	NotifyPaymentSuccess(ctx context.Context, cmd AdminPaymentCommand) error
}

// AdminPaymentCommand contains data for payment success notification
type AdminPaymentCommand struct {
	TransactionID  uint
	ExternalID     string
	OwnerID        uint
	SubscriptionID uint
	PlanCode       string
	PlanName       string
	AmountKZT      int64
	Provider       string
	ValidUntil     time.Time
	PaidAt         time.Time
}

// EventPublisher publishes subscription lifecycle events after commit.
type EventPublisher interface {
	PublishSubscriptionActivated(ctx context.Context, evt SubscriptionActivatedEvent) error
	PublishPaymentFailed(ctx context.Context, evt PaymentFailedEvent) error
}

type SubscriptionActivatedEvent struct {
	SubscriptionID uint       `json:"subscription_id"`
	OwnerID        uint       `json:"owner_id"`
	PlanID         uint       `json:"plan_id"`
	PlanCode       string     `json:"plan_code"`
	TransactionID  uint       `json:"transaction_id"`
	Provider       string     `json:"provider"`
	FirstPurchase  bool       `json:"first_purchase"`
	StartedAt      time.Time  `json:"started_at"`
	TrialUntil     *time.Time `json:"trial_until,omitempty"`
	ValidUntil     time.Time  `json:"valid_until"`
}

type PaymentFailedEvent struct {
	TransactionID  uint      `json:"transaction_id"`
	SubscriptionID uint      `json:"subscription_id"`
	OwnerID        uint      `json:"owner_id"`
	Provider       string    `json:"provider"`
	StatusCode     int       `json:"status_code"`
	FailedAt       time.Time `json:"failed_at"`
}

// CallbackMetrics records callback outcomes.
type CallbackMetrics interface {
	CallbackHandled(provider, result string)
	SubscriptionActivated(planCode string)
}

type HandleCallbackCommand struct {
	Provider  string
	Body      []byte
	Signature string
}

type HandleCallbackUseCase struct {
	transactionRepo  payment.TransactionRepository
	accountRepo      payment.AccountRepository
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	gateways         *paymentgateway.Registry
	txMgr            db.Transactor
	clock            biztime.Clock
	adminNotifier    AdminPaymentNotifier // Optional
	events           EventPublisher       // Optional
	metrics          CallbackMetrics      // Optional
	logger           logger.Interface
}

func NewHandleCallbackUseCase(
	transactionRepo payment.TransactionRepository,
	accountRepo payment.AccountRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	gateways *paymentgateway.Registry,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *HandleCallbackUseCase {
	return &HandleCallbackUseCase{
		transactionRepo:  transactionRepo,
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		gateways:         gateways,
		txMgr:            txMgr,
		clock:            clock,
		logger:           logger,
	}
}

// SetAdminNotifier sets the admin notifier (optional dependency injection)
func (uc *HandleCallbackUseCase) SetAdminNotifier(notifier AdminPaymentNotifier) {
	uc.adminNotifier = notifier
}

// SetEventPublisher sets the domain event publisher (optional dependency injection)
func (uc *HandleCallbackUseCase) SetEventPublisher(publisher EventPublisher) {
	uc.events = publisher
}

// SetMetrics sets the metrics recorder (optional dependency injection)
func (uc *HandleCallbackUseCase) SetMetrics(m CallbackMetrics) {
	uc.metrics = m
}

// reconciliation collects what happened inside the database transaction so
// side effects can run after commit.
type reconciliation struct {
	result      CallbackResult
	txn         *payment.Transaction
	statusCode  int
	success     bool
	activated   *subscription.OwnerSubscription
	plan        *subscription.Plan
	firstBuy    bool
	subFailed   bool
	processedAt time.Time
}

// Execute authenticates and applies a provider callback. Invalid signatures
// are rejected with 403 and mutate nothing. Any structurally parsed callback
// is acknowledged, including unmatched and duplicate ones.
func (uc *HandleCallbackUseCase) Execute(ctx context.Context, cmd HandleCallbackCommand) (CallbackResult, error) {
	provider := paymentVO.ParseProvider(cmd.Provider)
	gateway, ok := uc.gateways.Get(provider)
	if !ok {
		return "", apperrors.NewBadRequestError(i18n.KeyProviderNotSupported, fmt.Sprintf("provider %q", cmd.Provider))
	}

	account, err := uc.accountRepo.GetActiveByProvider(ctx, provider)
	if err != nil {
		if errors.Is(err, payment.ErrAccountNotFound) {
			uc.logger.Errorw("callback rejected: no active payment account", "provider", provider)
			uc.recordCallback(provider, "rejected")
			return "", apperrors.NewForbiddenError(i18n.KeyInvalidSignature, "no active account")
		}
		return "", fmt.Errorf("failed to resolve payment account: %w", err)
	}

	if !paymentgateway.VerifySignature(cmd.Body, cmd.Signature, account.CallbackSecret()) {
		uc.logger.Warnw("callback rejected: invalid signature", "provider", provider)
		uc.recordCallback(provider, "rejected")
		return "", apperrors.NewForbiddenError(i18n.KeyInvalidSignature)
	}

	data, err := gateway.ParseCallback(cmd.Body)
	if err != nil {
		uc.logger.Warnw("malformed payment callback acknowledged", "provider", provider, "error", err)
		uc.recordCallback(provider, string(CallbackMalformed))
		return CallbackMalformed, nil
	}

	outcome := gateway.StatusTable().Resolve(data.StatusCode)
	rec := &reconciliation{
		statusCode:  data.StatusCode,
		success:     outcome.IsSuccess(),
		processedAt: uc.clock.Now(),
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.reconcile(txCtx, provider, data.ExternalID, cmd.Body, rec)
	})
	if err != nil {
		uc.logger.Errorw("failed to apply payment callback",
			"provider", provider,
			"external_id", data.ExternalID,
			"error", err,
		)
		return "", fmt.Errorf("failed to apply payment callback: %w", err)
	}

	uc.recordCallback(provider, string(rec.result))
	if rec.result == CallbackApplied {
		uc.afterCommit(provider, rec)
	}
	return rec.result, nil
}

func (uc *HandleCallbackUseCase) reconcile(ctx context.Context, provider paymentVO.Provider, externalID string, body []byte, rec *reconciliation) error {
	txn, err := uc.transactionRepo.GetByProviderExternalID(ctx, provider, externalID)
	if err != nil {
		if errors.Is(err, payment.ErrTransactionNotFound) {
			uc.logger.Warnw("unmatched payment callback acknowledged", "provider", provider, "external_id", externalID)
			rec.result = CallbackUnmatched
			return nil
		}
		return fmt.Errorf("failed to find transaction: %w", err)
	}
	rec.txn = txn

	if !txn.ApplyOutcome(rec.success, body, rec.processedAt) {
		uc.logger.Infow("duplicate payment callback ignored",
			"transaction_id", txn.ID(),
			"status", txn.Status().String(),
		)
		rec.result = CallbackDuplicate
		return nil
	}

	// compare-and-set against concurrent deliveries of the same callback
	won, err := uc.transactionRepo.TransitionStatus(ctx, txn.ID(), txn.Status(), body, rec.processedAt)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if !won {
		uc.logger.Infow("payment callback lost race to concurrent delivery", "transaction_id", txn.ID())
		rec.result = CallbackDuplicate
		return nil
	}
	rec.result = CallbackApplied

	sub, err := uc.subscriptionRepo.GetByID(ctx, txn.SubscriptionID())
	if err != nil {
		return fmt.Errorf("failed to load subscription %d: %w", txn.SubscriptionID(), err)
	}

	if rec.success {
		return uc.activate(ctx, sub, rec)
	}

	if sub.MarkFailed(rec.processedAt) {
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			return fmt.Errorf("failed to mark subscription failed: %w", err)
		}
		rec.subFailed = true
	} else {
		uc.logger.Infow("failed payment left subscription untouched",
			"subscription_id", sub.ID(),
			"status", sub.Status().String(),
		)
	}
	return nil
}

func (uc *HandleCallbackUseCase) activate(ctx context.Context, sub *subscription.OwnerSubscription, rec *reconciliation) error {
	if !sub.Status().IsPending() {
		uc.logger.Warnw("successful payment for non-pending subscription",
			"subscription_id", sub.ID(),
			"status", sub.Status().String(),
		)
		return nil
	}

	plan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		return fmt.Errorf("failed to load plan %d: %w", sub.PlanID(), err)
	}

	hasOther, err := uc.subscriptionRepo.ExistsOtherWithStatus(ctx, sub.OwnerID(), sub.ID(), vo.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to check previous subscriptions: %w", err)
	}

	window := subscription.ComputeActivationWindow(plan, !hasOther, rec.processedAt)
	if err := sub.Activate(window); err != nil {
		return err
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	rec.activated = sub
	rec.plan = plan
	rec.firstBuy = !hasOther
	uc.logger.Infow("subscription activated",
		"subscription_id", sub.ID(),
		"owner_id", sub.OwnerID(),
		"plan_code", plan.Code(),
		"trial_days", window.TrialDays,
		"valid_until", window.ValidUntil,
	)
	return nil
}

func (uc *HandleCallbackUseCase) recordCallback(provider paymentVO.Provider, result string) {
	if uc.metrics != nil {
		uc.metrics.CallbackHandled(provider.String(), result)
	}
}

func (uc *HandleCallbackUseCase) afterCommit(provider paymentVO.Provider, rec *reconciliation) {
	txn := rec.txn

	if rec.activated != nil {
		sub, plan := rec.activated, rec.plan
		if uc.metrics != nil {
			uc.metrics.SubscriptionActivated(plan.Code())
		}
		if uc.events != nil {
			evt := SubscriptionActivatedEvent{
				SubscriptionID: sub.ID(),
				OwnerID:        sub.OwnerID(),
				PlanID:         plan.ID(),
				PlanCode:       plan.Code(),
				TransactionID:  txn.ID(),
				Provider:       provider.String(),
				FirstPurchase:  rec.firstBuy,
				StartedAt:      *sub.StartedAt(),
				TrialUntil:     sub.TrialUntil(),
				ValidUntil:     *sub.ValidUntil(),
			}
			goroutine.SafeGoWithTimeout(uc.logger, "payment-callback-publish-activated", sideEffectTimeout, func(ctx context.Context) {
				if err := uc.events.PublishSubscriptionActivated(ctx, evt); err != nil {
					uc.logger.Warnw("failed to publish subscription activated event", "subscription_id", evt.SubscriptionID, "error", err)
				}
			})
		}
		if uc.adminNotifier != nil {
			cmd := AdminPaymentCommand{
				TransactionID:  txn.ID(),
				OwnerID:        sub.OwnerID(),
				SubscriptionID: sub.ID(),
				PlanCode:       plan.Code(),
				PlanName:       plan.Name(),
				AmountKZT:      txn.Amount().Amount(),
				Provider:       provider.String(),
				ValidUntil:     *sub.ValidUntil(),
				PaidAt:         rec.processedAt,
			}
			if txn.ExternalID() != nil {
				cmd.ExternalID = *txn.ExternalID()
			}
			goroutine.SafeGoWithTimeout(uc.logger, "payment-callback-notify-admins", sideEffectTimeout, func(ctx context.Context) {
				if err := uc.adminNotifier.NotifyPaymentSuccess(ctx, cmd); err != nil {
					uc.logger.Warnw("failed to notify admins about payment success", "transaction_id", cmd.TransactionID, "error", err)
				}
			})
		}
		return
	}

	if !rec.success && uc.events != nil {
		evt := PaymentFailedEvent{
			TransactionID:  txn.ID(),
			SubscriptionID: txn.SubscriptionID(),
			OwnerID:        txn.OwnerID(),
			Provider:       provider.String(),
			StatusCode:     rec.statusCode,
			FailedAt:       rec.processedAt,
		}
		goroutine.SafeGoWithTimeout(uc.logger, "payment-callback-publish-failed", sideEffectTimeout, func(ctx context.Context) {
			if err := uc.events.PublishPaymentFailed(ctx, evt); err != nil {
				uc.logger.Warnw("failed to publish payment failed event", "transaction_id", evt.TransactionID, "error", err)
			}
		})
	}
}
