package usecases

import (
	"context"
	"time"

	"github.com/autopro-kz/autopro/internal/application/payment/paymentgateway"
	"github.com/autopro-kz/autopro/internal/domain/payment"
	paymentVO "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	vo "github.com/autopro-kz/autopro/internal/domain/subscription/valueobjects"
)

type mockPlanRepository struct {
	CreateFunc     func(ctx context.Context, plan *subscription.Plan) error
	UpdateFunc     func(ctx context.Context, plan *subscription.Plan) error
	GetByIDFunc    func(ctx context.Context, id uint) (*subscription.Plan, error)
	GetByCodeFunc  func(ctx context.Context, code string) (*subscription.Plan, error)
	ListActiveFunc func(ctx context.Context) ([]*subscription.Plan, error)
	ListAllFunc    func(ctx context.Context) ([]*subscription.Plan, error)
}

func (m *mockPlanRepository) Create(ctx context.Context, plan *subscription.Plan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepository) Update(ctx context.Context, plan *subscription.Plan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, subscription.ErrPlanNotFound
}

func (m *mockPlanRepository) GetByCode(ctx context.Context, code string) (*subscription.Plan, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	return nil, subscription.ErrPlanNotFound
}

func (m *mockPlanRepository) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockPlanRepository) ListAll(ctx context.Context) ([]*subscription.Plan, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

type mockSubscriptionRepository struct {
	CreateFunc                func(ctx context.Context, sub *subscription.OwnerSubscription) error
	UpdateFunc                func(ctx context.Context, sub *subscription.OwnerSubscription) error
	GetByIDFunc               func(ctx context.Context, id uint) (*subscription.OwnerSubscription, error)
	GetActiveByOwnerFunc      func(ctx context.Context, ownerID uint, now time.Time) (*subscription.OwnerSubscription, *subscription.Plan, error)
	ExistsOtherWithStatusFunc func(ctx context.Context, ownerID, excludeID uint, statuses ...vo.SubscriptionStatus) (bool, error)
	ListLapsedActiveFunc      func(ctx context.Context, now time.Time, limit int) ([]*subscription.OwnerSubscription, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.OwnerSubscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.OwnerSubscription) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.OwnerSubscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (m *mockSubscriptionRepository) GetActiveByOwner(ctx context.Context, ownerID uint, now time.Time) (*subscription.OwnerSubscription, *subscription.Plan, error) {
	if m.GetActiveByOwnerFunc != nil {
		return m.GetActiveByOwnerFunc(ctx, ownerID, now)
	}
	return nil, nil, nil
}

func (m *mockSubscriptionRepository) ExistsOtherWithStatus(ctx context.Context, ownerID, excludeID uint, statuses ...vo.SubscriptionStatus) (bool, error) {
	if m.ExistsOtherWithStatusFunc != nil {
		return m.ExistsOtherWithStatusFunc(ctx, ownerID, excludeID, statuses...)
	}
	return false, nil
}

func (m *mockSubscriptionRepository) ListLapsedActive(ctx context.Context, now time.Time, limit int) ([]*subscription.OwnerSubscription, error) {
	if m.ListLapsedActiveFunc != nil {
		return m.ListLapsedActiveFunc(ctx, now, limit)
	}
	return nil, nil
}

type mockTransactionRepository struct {
	CreateFunc            func(ctx context.Context, tx *payment.Transaction) error
	UpdateGatewayInfoFunc func(ctx context.Context, tx *payment.Transaction) error
}

func (m *mockTransactionRepository) Create(ctx context.Context, tx *payment.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx)
	}
	return nil
}

func (m *mockTransactionRepository) UpdateGatewayInfo(ctx context.Context, tx *payment.Transaction) error {
	if m.UpdateGatewayInfoFunc != nil {
		return m.UpdateGatewayInfoFunc(ctx, tx)
	}
	return nil
}

func (m *mockTransactionRepository) GetByID(ctx context.Context, id uint) (*payment.Transaction, error) {
	return nil, payment.ErrTransactionNotFound
}

func (m *mockTransactionRepository) GetByProviderExternalID(ctx context.Context, provider paymentVO.Provider, externalID string) (*payment.Transaction, error) {
	return nil, payment.ErrTransactionNotFound
}

func (m *mockTransactionRepository) TransitionStatus(ctx context.Context, id uint, to paymentVO.TransactionStatus, rawPayload []byte, now time.Time) (bool, error) {
	return false, nil
}

func (m *mockTransactionRepository) ListBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*payment.Transaction, error) {
	return nil, nil
}

type mockAccountRepository struct {
	GetActiveByProviderFunc func(ctx context.Context, provider paymentVO.Provider) (*payment.Account, error)
}

func (m *mockAccountRepository) Create(ctx context.Context, account *payment.Account) error {
	return nil
}

func (m *mockAccountRepository) Update(ctx context.Context, account *payment.Account) error {
	return nil
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id uint) (*payment.Account, error) {
	return nil, payment.ErrAccountNotFound
}

func (m *mockAccountRepository) GetActiveByProvider(ctx context.Context, provider paymentVO.Provider) (*payment.Account, error) {
	if m.GetActiveByProviderFunc != nil {
		return m.GetActiveByProviderFunc(ctx, provider)
	}
	return nil, payment.ErrAccountNotFound
}

func (m *mockAccountRepository) DeactivateOthers(ctx context.Context, provider paymentVO.Provider, keepID uint) error {
	return nil
}

func (m *mockAccountRepository) List(ctx context.Context) ([]*payment.Account, error) {
	return nil, nil
}

type mockGateway struct {
	CreatePaymentFunc func(ctx context.Context, req paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error)
}

func (m *mockGateway) Provider() paymentVO.Provider {
	return paymentVO.ProviderKassa24
}

func (m *mockGateway) CreatePayment(ctx context.Context, req paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error) {
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, req)
	}
	return &paymentgateway.CreatePaymentResponse{PaymentURL: "https://pay.example/1", ExternalID: "ext-1"}, nil
}

func (m *mockGateway) ParseCallback(body []byte) (*paymentgateway.CallbackData, error) {
	return nil, nil
}

func (m *mockGateway) StatusTable() paymentgateway.StatusTable {
	return paymentgateway.Kassa24StatusTable()
}

// passthroughTx runs fn directly; no database is involved in these tests.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockMetrics struct {
	created []string
	failed  []string
}

func (m *mockMetrics) PaymentCreated(provider string) { m.created = append(m.created, provider) }

func (m *mockMetrics) GatewayFailed(provider string) { m.failed = append(m.failed, provider) }

func (m *mockMetrics) ObserveGatewayLatency(string, time.Duration) {}

func intPtr(v int) *int { return &v }

func testPlan(id uint, code string, price int64, active bool) *subscription.Plan {
	p, err := subscription.ReconstructPlan(subscription.PlanParams{
		ID:          id,
		Code:        code,
		Name:        code,
		Description: "**" + code + "** plan",
		PriceKZT:    price,
		PeriodDays:  30,
		FreeDays:    5,
		MaxCars:     intPtr(3),
		IsActive:    active,
	})
	if err != nil {
		panic(err)
	}
	return p
}

func testAccount() *payment.Account {
	return payment.ReconstructAccount(payment.AccountParams{
		ID:             1,
		Provider:       paymentVO.ProviderKassa24,
		Login:          "merchant",
		Password:       "pw",
		MerchantID:     "M-1",
		CallbackSecret: "cb",
		IsActive:       true,
	})
}
