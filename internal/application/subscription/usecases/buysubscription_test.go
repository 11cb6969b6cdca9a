package usecases

import (
	"context"
	"net/http"
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

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type buyFixture struct {
	planRepo    *mockPlanRepository
	subRepo     *mockSubscriptionRepository
	txRepo      *mockTransactionRepository
	accountRepo *mockAccountRepository
	gateway     *mockGateway
	metrics     *mockMetrics

	createdSub *subscription.OwnerSubscription
	createdTxn *payment.Transaction
	updatedTxn *payment.Transaction
}

func newBuyFixture() *buyFixture {
	f := &buyFixture{metrics: &mockMetrics{}}
	f.planRepo = &mockPlanRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*subscription.Plan, error) {
			switch id {
			case 1:
				return testPlan(1, "LITE", 5000, true), nil
			case 2:
				return testPlan(2, "OLD", 3000, false), nil
			}
			return nil, subscription.ErrPlanNotFound
		},
	}
	f.subRepo = &mockSubscriptionRepository{
		CreateFunc: func(ctx context.Context, sub *subscription.OwnerSubscription) error {
			sub.SetID(42)
			f.createdSub = sub
			return nil
		},
	}
	f.txRepo = &mockTransactionRepository{
		CreateFunc: func(ctx context.Context, tx *payment.Transaction) error {
			tx.SetID(7)
			f.createdTxn = tx
			return nil
		},
		UpdateGatewayInfoFunc: func(ctx context.Context, tx *payment.Transaction) error {
			f.updatedTxn = tx
			return nil
		},
	}
	f.accountRepo = &mockAccountRepository{
		GetActiveByProviderFunc: func(ctx context.Context, provider paymentVO.Provider) (*payment.Account, error) {
			return testAccount(), nil
		},
	}
	f.gateway = &mockGateway{}
	return f
}

func (f *buyFixture) useCase() *BuySubscriptionUseCase {
	uc := NewBuySubscriptionUseCase(
		f.planRepo, f.subRepo, f.txRepo, f.accountRepo,
		paymentgateway.NewRegistry(f.gateway),
		passthroughTx{},
		biztime.FixedClock{T: fixedNow},
		logger.NewNop(),
	)
	uc.SetMetrics(f.metrics)
	return uc
}

func TestBuySubscriptionUseCase_Success(t *testing.T) {
	f := newBuyFixture()
	var gotReq paymentgateway.CreatePaymentRequest
	f.gateway.CreatePaymentFunc = func(ctx context.Context, req paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error) {
		gotReq = req
		return &paymentgateway.CreatePaymentResponse{PaymentURL: "https://pay.example/ext123", ExternalID: "ext123"}, nil
	}

	result, err := f.useCase().Execute(context.Background(), BuySubscriptionCommand{OwnerID: 5, PlanID: 1, Provider: "kassa24"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), result.TransactionID)
	assert.Equal(t, "https://pay.example/ext123", result.PaymentURL)

	require.NotNil(t, f.createdSub)
	assert.Equal(t, vo.StatusPending, f.createdSub.Status())
	assert.Nil(t, f.createdSub.ValidUntil())

	require.NotNil(t, f.createdTxn)
	assert.Equal(t, "42", f.createdTxn.OrderID())
	assert.Equal(t, int64(5000), f.createdTxn.Amount().Amount())
	assert.Equal(t, paymentVO.TransactionStatusCreated, f.createdTxn.Status())

	assert.Equal(t, "M-1", gotReq.Account.MerchantID())
	assert.Equal(t, uint(42), gotReq.Subscription.ID())

	require.NotNil(t, f.updatedTxn)
	assert.Equal(t, "ext123", *f.updatedTxn.ExternalID())
	assert.Equal(t, []string{"kassa24"}, f.metrics.created)
}

func TestBuySubscriptionUseCase_PlanErrors(t *testing.T) {
	for _, planID := range []uint{2, 99} {
		f := newBuyFixture()
		_, err := f.useCase().Execute(context.Background(), BuySubscriptionCommand{OwnerID: 5, PlanID: planID, Provider: "kassa24"})
		require.Error(t, err)

		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
		assert.Equal(t, i18n.KeyPlanNotFound, appErr.Message)
		assert.Nil(t, f.createdSub, "no subscription for plan %d", planID)
	}
}

func TestBuySubscriptionUseCase_UnsupportedProvider(t *testing.T) {
	f := newBuyFixture()
	_, err := f.useCase().Execute(context.Background(), BuySubscriptionCommand{OwnerID: 5, PlanID: 1, Provider: "stripe"})

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, i18n.KeyProviderNotSupported, appErr.Message)
	assert.Nil(t, f.createdSub)
}

func TestBuySubscriptionUseCase_GatewayErrorKeepsPendingRows(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *buyFixture)
	}{
		{
			name: "provider failure",
			setup: func(f *buyFixture) {
				f.gateway.CreatePaymentFunc = func(ctx context.Context, req paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error) {
					return nil, paymentgateway.NewGatewayError(paymentVO.ProviderKassa24, "unexpected status 500", nil)
				}
			},
		},
		{
			name: "no active account",
			setup: func(f *buyFixture) {
				f.accountRepo.GetActiveByProviderFunc = func(ctx context.Context, provider paymentVO.Provider) (*payment.Account, error) {
					return nil, payment.ErrAccountNotFound
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBuyFixture()
			tt.setup(f)

			_, err := f.useCase().Execute(context.Background(), BuySubscriptionCommand{OwnerID: 5, PlanID: 1, Provider: "kassa24"})
			require.Error(t, err)

			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusBadGateway, appErr.Code)
			assert.Equal(t, i18n.KeyGatewayError, appErr.Message)

			require.NotNil(t, f.createdSub)
			assert.Equal(t, vo.StatusPending, f.createdSub.Status())
			require.NotNil(t, f.createdTxn)
			assert.Equal(t, paymentVO.TransactionStatusCreated, f.createdTxn.Status())
			assert.Nil(t, f.updatedTxn)
			assert.Equal(t, []string{"kassa24"}, f.metrics.failed)
		})
	}
}
