package usecases

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopro-kz/autopro/internal/application/payment/paymentgateway"
	"github.com/autopro-kz/autopro/internal/domain/payment"
	paymentVO "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	vo "github.com/autopro-kz/autopro/internal/domain/subscription/valueobjects"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

type callbackFixture struct {
	store     *memStore
	metrics   *recordingMetrics
	publisher *recordingPublisher
	notifier  *recordingNotifier
	uc        *HandleCallbackUseCase
}

func newCallbackFixture(now time.Time) *callbackFixture {
	s := newMemStore()
	seedAccount(s)
	f := &callbackFixture{
		store:     s,
		metrics:   &recordingMetrics{},
		publisher: newRecordingPublisher(),
		notifier:  &recordingNotifier{calls: make(chan AdminPaymentCommand, 4)},
	}
	f.uc = NewHandleCallbackUseCase(
		memTransactionRepo{s}, memAccountRepo{s}, memSubscriptionRepo{s}, memPlanRepo{s},
		paymentgateway.NewRegistry(jsonGateway{}),
		passthroughTx{},
		biztime.FixedClock{T: now},
		logger.NewNop(),
	)
	f.uc.SetMetrics(f.metrics)
	f.uc.SetEventPublisher(f.publisher)
	f.uc.SetAdminNotifier(f.notifier)
	return f
}

func (f *callbackFixture) deliver(t *testing.T, externalID string, status int) (CallbackResult, error) {
	t.Helper()
	body := []byte(fmt.Sprintf(`{"id":%q,"status":%d}`, externalID, status))
	return f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider:  "kassa24",
		Body:      body,
		Signature: paymentgateway.Sign(body, testSecret),
	})
}

func (f *callbackFixture) subscription(t *testing.T, id uint) *subscription.OwnerSubscription {
	t.Helper()
	sub, err := memSubscriptionRepo{f.store}.GetByID(context.Background(), id)
	require.NoError(t, err)
	return sub
}

func TestHandleCallback_HappyPathActivatesWithTrial(t *testing.T) {
	f := newCallbackFixture(fixedNow)
	plan := seedPlan(f.store, "LITE", 30, 5, intPtr(3))
	subID, txnID := seedPurchase(f.store, 9, plan, "ext123")

	result, err := f.deliver(t, "ext123", 1)

	require.NoError(t, err)
	assert.Equal(t, CallbackApplied, result)

	sub := f.subscription(t, subID)
	assert.Equal(t, vo.StatusActive, sub.Status())
	require.NotNil(t, sub.ValidUntil())
	require.NotNil(t, sub.TrialUntil())
	assert.Equal(t, fixedNow.Add(biztime.Days(35)), *sub.ValidUntil())
	assert.Equal(t, fixedNow.Add(biztime.Days(5)), *sub.TrialUntil())
	assert.Equal(t, fixedNow, *sub.StartedAt())

	txn, err := memTransactionRepo{f.store}.GetByID(context.Background(), txnID)
	require.NoError(t, err)
	assert.Equal(t, paymentVO.TransactionStatusSuccess, txn.Status())
	assert.NotEmpty(t, txn.RawPayload())

	select {
	case evt := <-f.publisher.activated:
		assert.Equal(t, subID, evt.SubscriptionID)
		assert.True(t, evt.FirstPurchase)
		assert.Equal(t, "LITE", evt.PlanCode)
	case <-time.After(2 * time.Second):
		t.Fatal("activation event not published")
	}
	select {
	case cmd := <-f.notifier.calls:
		assert.Equal(t, "ext123", cmd.ExternalID)
		assert.Equal(t, int64(5000), cmd.AmountKZT)
	case <-time.After(2 * time.Second):
		t.Fatal("admins not notified")
	}
	assert.Equal(t, []string{"LITE"}, f.metrics.activated)
}

func TestHandleCallback_SecondSubscriptionGetsNoTrial(t *testing.T) {
	f := newCallbackFixture(fixedNow)
	plan := seedPlan(f.store, "PRO", 30, 7, nil)

	firstID, _ := seedPurchase(f.store, 9, plan, "first")
	_, err := f.deliver(t, "first", 1)
	require.NoError(t, err)
	require.Equal(t, vo.StatusActive, f.subscription(t, firstID).Status())

	secondID, _ := seedPurchase(f.store, 9, plan, "second")
	_, err = f.deliver(t, "second", 1)
	require.NoError(t, err)

	second := f.subscription(t, secondID)
	assert.Equal(t, vo.StatusActive, second.Status())
	assert.Nil(t, second.TrialUntil())
	assert.Equal(t, fixedNow.Add(biztime.Days(30)), *second.ValidUntil())
}

func TestHandleCallback_ExpiredHistoryStillGetsTrial(t *testing.T) {
	f := newCallbackFixture(fixedNow)
	plan := seedPlan(f.store, "PRO", 30, 7, nil)

	lapsedStart := fixedNow.Add(-biztime.Days(90))
	lapsedUntil := fixedNow.Add(-biztime.Days(53))
	lapsed, err := subscription.ReconstructSubscription(subscription.SubscriptionParams{
		ID:         f.store.id(),
		OwnerID:    9,
		PlanID:     plan.ID(),
		Status:     vo.StatusExpired,
		StartedAt:  &lapsedStart,
		ValidUntil: &lapsedUntil,
		CreatedAt:  lapsedStart,
		UpdatedAt:  lapsedUntil,
	})
	require.NoError(t, err)
	f.store.subs[lapsed.ID()] = *lapsed

	subID, _ := seedPurchase(f.store, 9, plan, "again")
	result, err := f.deliver(t, "again", 1)

	require.NoError(t, err)
	assert.Equal(t, CallbackApplied, result)
	sub := f.subscription(t, subID)
	assert.Equal(t, vo.StatusActive, sub.Status())
	require.NotNil(t, sub.TrialUntil())
	assert.Equal(t, fixedNow.Add(biztime.Days(7)), *sub.TrialUntil())
	assert.Equal(t, fixedNow.Add(biztime.Days(37)), *sub.ValidUntil())
}

func TestHandleCallback_DuplicateDoesNotExtendValidity(t *testing.T) {
	f := newCallbackFixture(fixedNow)
	plan := seedPlan(f.store, "LITE", 30, 5, intPtr(3))
	subID, _ := seedPurchase(f.store, 9, plan, "ext123")

	_, err := f.deliver(t, "ext123", 1)
	require.NoError(t, err)
	firstValid := *f.subscription(t, subID).ValidUntil()
	updates := f.store.subUpdates

	// the provider retries a day later
	f.uc.clock = biztime.FixedClock{T: fixedNow.Add(24 * time.Hour)}
	result, err := f.deliver(t, "ext123", 1)

	require.NoError(t, err)
	assert.Equal(t, CallbackDuplicate, result)
	assert.Equal(t, firstValid, *f.subscription(t, subID).ValidUntil())
	assert.Equal(t, updates, f.store.subUpdates)
}

func TestHandleCallback_FailureAfterSuccessIsIgnored(t *testing.T) {
	f := newCallbackFixture(fixedNow)
	plan := seedPlan(f.store, "LITE", 30, 5, intPtr(3))
	subID, _ := seedPurchase(f.store, 9, plan, "ext123")

	_, err := f.deliver(t, "ext123", 1)
	require.NoError(t, err)

	result, err := f.deliver(t, "ext123", 0)
	require.NoError(t, err)
	assert.Equal(t, CallbackDuplicate, result)
	assert.Equal(t, vo.StatusActive, f.subscription(t, subID).Status())
}

func TestHandleCallback_FailedPaymentMarksPendingFailed(t *testing.T) {
	for _, status := range []int{0, 2, 3, 99} {
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			f := newCallbackFixture(fixedNow)
			plan := seedPlan(f.store, "LITE", 30, 5, intPtr(3))
			subID, txnID := seedPurchase(f.store, 9, plan, "ext123")

			result, err := f.deliver(t, "ext123", status)

			require.NoError(t, err)
			assert.Equal(t, CallbackApplied, result)
			sub := f.subscription(t, subID)
			assert.Equal(t, vo.StatusFailed, sub.Status())
			assert.Nil(t, sub.ValidUntil())

			txn, err := memTransactionRepo{f.store}.GetByID(context.Background(), txnID)
			require.NoError(t, err)
			assert.Equal(t, paymentVO.TransactionStatusFailed, txn.Status())

			select {
			case evt := <-f.publisher.failed:
				assert.Equal(t, status, evt.StatusCode)
			case <-time.After(2 * time.Second):
				t.Fatal("failure event not published")
			}
		})
	}
}

func TestHandleCallback_FailedRetryDoesNotDowngradeActive(t *testing.T) {
	f := newCallbackFixture(fixedNow)
	plan := seedPlan(f.store, "LITE", 30, 5, intPtr(3))
	subID, _ := seedPurchase(f.store, 9, plan, "ok")
	_, err := f.deliver(t, "ok", 1)
	require.NoError(t, err)
	validUntil := *f.subscription(t, subID).ValidUntil()

	// another payment attempt against the same, now active, subscription
	retry, err := payment.NewTransaction(paymentVO.ProviderKassa24, 9, subID,
		paymentVO.NewMoney(plan.PriceKZT(), paymentVO.CurrencyKZT), fixedNow)
	require.NoError(t, err)
	retry.SetGatewayInfo("retry", "https://pay.example/retry", fixedNow)
	require.NoError(t, memTransactionRepo{f.store}.Create(context.Background(), retry))

	result, err := f.deliver(t, "retry", 0)

	require.NoError(t, err)
	assert.Equal(t, CallbackApplied, result)
	sub := f.subscription(t, subID)
	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Equal(t, validUntil, *sub.ValidUntil())
}

func TestHandleCallback_UnmatchedIsAcknowledged(t *testing.T) {
	f := newCallbackFixture(fixedNow)
	plan := seedPlan(f.store, "LITE", 30, 5, intPtr(3))
	subID, _ := seedPurchase(f.store, 9, plan, "ext123")

	result, err := f.deliver(t, "nope", 1)

	require.NoError(t, err)
	assert.Equal(t, CallbackUnmatched, result)
	assert.Equal(t, vo.StatusPending, f.subscription(t, subID).Status())
	assert.Zero(t, f.store.subUpdates)
	assert.Contains(t, f.metrics.callbacks, "kassa24:unmatched")
}

func TestHandleCallback_MalformedIsAcknowledged(t *testing.T) {
	f := newCallbackFixture(fixedNow)
	body := []byte(`{"status":"oops"`)

	result, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider:  "kassa24",
		Body:      body,
		Signature: paymentgateway.Sign(body, testSecret),
	})

	require.NoError(t, err)
	assert.Equal(t, CallbackMalformed, result)
}

func TestHandleCallback_RejectsBadSignature(t *testing.T) {
	tests := []struct {
		name      string
		signature string
	}{
		{"missing", ""},
		{"wrong secret", paymentgateway.Sign([]byte(`{"id":"ext123","status":1}`), "other")},
		{"garbage", "zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCallbackFixture(fixedNow)
			plan := seedPlan(f.store, "LITE", 30, 5, intPtr(3))
			subID, _ := seedPurchase(f.store, 9, plan, "ext123")

			_, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
				Provider:  "kassa24",
				Body:      []byte(`{"id":"ext123","status":1}`),
				Signature: tt.signature,
			})

			require.Error(t, err)
			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusForbidden, appErr.Code)
			assert.Equal(t, i18n.KeyInvalidSignature, appErr.Message)
			assert.Equal(t, vo.StatusPending, f.subscription(t, subID).Status())
		})
	}
}

func TestHandleCallback_UnknownProvider(t *testing.T) {
	f := newCallbackFixture(fixedNow)

	_, err := f.uc.Execute(context.Background(), HandleCallbackCommand{Provider: "paypal", Body: []byte(`{}`)})

	require.Error(t, err)
	assert.Equal(t, i18n.KeyProviderNotSupported, apperrors.GetAppError(err).Message)
}

func TestHandleCallback_ConcurrentDeliveriesActivateOnce(t *testing.T) {
	f := newCallbackFixture(fixedNow)
	f.uc.SetEventPublisher(nil)
	f.uc.SetAdminNotifier(nil)
	plan := seedPlan(f.store, "LITE", 30, 5, intPtr(3))
	seedPurchase(f.store, 9, plan, "ext123")

	const deliveries = 8
	results := make([]CallbackResult, deliveries)
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := f.deliver(t, "ext123", 1)
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	applied := 0
	for _, r := range results {
		if r == CallbackApplied {
			applied++
		}
	}
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, f.store.subUpdates)
}
