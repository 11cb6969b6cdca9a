package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/autopro-kz/autopro/internal/application/payment/paymentgateway"
	"github.com/autopro-kz/autopro/internal/domain/payment"
	paymentVO "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	vo "github.com/autopro-kz/autopro/internal/domain/subscription/valueobjects"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

const testSecret = "cb-secret"

// memStore keeps rows as value copies so the use case only sees what it
// persisted explicitly.
type memStore struct {
	mu       sync.Mutex
	txns     map[uint]payment.Transaction
	subs     map[uint]subscription.OwnerSubscription
	plans    map[uint]*subscription.Plan
	accounts map[uint]payment.Account
	nextID   uint

	subUpdates int
}

func newMemStore() *memStore {
	return &memStore{
		txns:     map[uint]payment.Transaction{},
		subs:     map[uint]subscription.OwnerSubscription{},
		plans:    map[uint]*subscription.Plan{},
		accounts: map[uint]payment.Account{},
		nextID:   100,
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

type memTransactionRepo struct{ s *memStore }

func (r memTransactionRepo) Create(ctx context.Context, tx *payment.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx.SetID(r.s.id())
	r.s.txns[tx.ID()] = *tx
	return nil
}

func (r memTransactionRepo) UpdateGatewayInfo(ctx context.Context, tx *payment.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.txns[tx.ID()] = *tx
	return nil
}

func (r memTransactionRepo) GetByID(ctx context.Context, id uint) (*payment.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.txns[id]
	if !ok {
		return nil, payment.ErrTransactionNotFound
	}
	return &t, nil
}

func (r memTransactionRepo) GetByProviderExternalID(ctx context.Context, provider paymentVO.Provider, externalID string) (*payment.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.txns {
		if t.Provider() == provider && t.ExternalID() != nil && *t.ExternalID() == externalID {
			c := t
			return &c, nil
		}
	}
	return nil, payment.ErrTransactionNotFound
}

func (r memTransactionRepo) TransitionStatus(ctx context.Context, id uint, to paymentVO.TransactionStatus, raw []byte, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.txns[id]
	if !ok {
		return false, payment.ErrTransactionNotFound
	}
	if t.Status().IsTerminal() {
		return false, nil
	}
	t.ApplyOutcome(to.IsSuccess(), raw, now)
	r.s.txns[id] = t
	return true, nil
}

func (r memTransactionRepo) ListBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*payment.Transaction, error) {
	return nil, nil
}

type memSubscriptionRepo struct{ s *memStore }

func (r memSubscriptionRepo) Create(ctx context.Context, sub *subscription.OwnerSubscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub.SetID(r.s.id())
	r.s.subs[sub.ID()] = *sub
	return nil
}

func (r memSubscriptionRepo) Update(ctx context.Context, sub *subscription.OwnerSubscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.subs[sub.ID()] = *sub
	r.s.subUpdates++
	return nil
}

func (r memSubscriptionRepo) GetByID(ctx context.Context, id uint) (*subscription.OwnerSubscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subs[id]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return &sub, nil
}

func (r memSubscriptionRepo) GetActiveByOwner(ctx context.Context, ownerID uint, now time.Time) (*subscription.OwnerSubscription, *subscription.Plan, error) {
	return nil, nil, errors.New("not used")
}

func (r memSubscriptionRepo) ExistsOtherWithStatus(ctx context.Context, ownerID, excludeID uint, statuses ...vo.SubscriptionStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, sub := range r.s.subs {
		if id == excludeID || sub.OwnerID() != ownerID {
			continue
		}
		for _, st := range statuses {
			if sub.Status() == st {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r memSubscriptionRepo) ListLapsedActive(ctx context.Context, now time.Time, limit int) ([]*subscription.OwnerSubscription, error) {
	return nil, nil
}

type memPlanRepo struct{ s *memStore }

func (r memPlanRepo) Create(ctx context.Context, plan *subscription.Plan) error { return nil }

func (r memPlanRepo) Update(ctx context.Context, plan *subscription.Plan) error { return nil }

func (r memPlanRepo) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	if p, ok := r.s.plans[id]; ok {
		return p, nil
	}
	return nil, subscription.ErrPlanNotFound
}

func (r memPlanRepo) GetByCode(ctx context.Context, code string) (*subscription.Plan, error) {
	return nil, subscription.ErrPlanNotFound
}

func (r memPlanRepo) ListActive(ctx context.Context) ([]*subscription.Plan, error) { return nil, nil }

func (r memPlanRepo) ListAll(ctx context.Context) ([]*subscription.Plan, error) { return nil, nil }

type memAccountRepo struct{ s *memStore }

func (r memAccountRepo) Create(ctx context.Context, account *payment.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account.SetID(r.s.id())
	r.s.accounts[account.ID()] = *account
	return nil
}

func (r memAccountRepo) Update(ctx context.Context, account *payment.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.accounts[account.ID()] = *account
	return nil
}

func (r memAccountRepo) GetByID(ctx context.Context, id uint) (*payment.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, payment.ErrAccountNotFound
	}
	return &a, nil
}

func (r memAccountRepo) GetActiveByProvider(ctx context.Context, provider paymentVO.Provider) (*payment.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Provider() == provider && a.IsActive() {
			c := a
			return &c, nil
		}
	}
	return nil, payment.ErrAccountNotFound
}

func (r memAccountRepo) DeactivateOthers(ctx context.Context, provider paymentVO.Provider, keepID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	off := false
	for id, a := range r.s.accounts {
		if id == keepID || a.Provider() != provider || !a.IsActive() {
			continue
		}
		if err := a.ApplyPatch(payment.AccountPatch{IsActive: &off}, fixedNow); err != nil {
			return err
		}
		r.s.accounts[id] = a
	}
	return nil
}

func (r memAccountRepo) List(ctx context.Context) ([]*payment.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*payment.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		c := a
		result = append(result, &c)
	}
	return result, nil
}

// jsonGateway parses {"id": "...", "status": N} like the kassa24 callback.
type jsonGateway struct{}

func (jsonGateway) Provider() paymentVO.Provider { return paymentVO.ProviderKassa24 }

func (jsonGateway) CreatePayment(ctx context.Context, req paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error) {
	return nil, errors.New("not used")
}

func (jsonGateway) ParseCallback(body []byte) (*paymentgateway.CallbackData, error) {
	var payload struct {
		ID     string `json:"id"`
		Status *int   `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if payload.ID == "" || payload.Status == nil {
		return nil, errors.New("missing fields")
	}
	return &paymentgateway.CallbackData{ExternalID: payload.ID, StatusCode: *payload.Status}, nil
}

func (jsonGateway) StatusTable() paymentgateway.StatusTable {
	return paymentgateway.Kassa24StatusTable()
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingMetrics struct {
	mu        sync.Mutex
	callbacks []string
	activated []string
}

func (m *recordingMetrics) CallbackHandled(provider, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, provider+":"+result)
}

func (m *recordingMetrics) SubscriptionActivated(planCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activated = append(m.activated, planCode)
}

type recordingPublisher struct {
	activated chan SubscriptionActivatedEvent
	failed    chan PaymentFailedEvent
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{
		activated: make(chan SubscriptionActivatedEvent, 4),
		failed:    make(chan PaymentFailedEvent, 4),
	}
}

func (p *recordingPublisher) PublishSubscriptionActivated(ctx context.Context, evt SubscriptionActivatedEvent) error {
	p.activated <- evt
	return nil
}

func (p *recordingPublisher) PublishPaymentFailed(ctx context.Context, evt PaymentFailedEvent) error {
	p.failed <- evt
	return nil
}

type recordingNotifier struct {
	calls chan AdminPaymentCommand
}

func (n *recordingNotifier) NotifyPaymentSuccess(ctx context.Context, cmd AdminPaymentCommand) error {
	n.calls <- cmd
	return nil
}

func intPtr(v int) *int { return &v }

func seedPlan(s *memStore, code string, period, free int, maxCars *int) *subscription.Plan {
	p, err := subscription.ReconstructPlan(subscription.PlanParams{
		ID:         s.id(),
		Code:       code,
		Name:       code,
		PriceKZT:   5000,
		PeriodDays: period,
		FreeDays:   free,
		MaxCars:    maxCars,
		IsActive:   true,
	})
	if err != nil {
		panic(err)
	}
	s.plans[p.ID()] = p
	return p
}

func seedAccount(s *memStore) {
	a := payment.ReconstructAccount(payment.AccountParams{
		ID:             s.id(),
		Provider:       paymentVO.ProviderKassa24,
		Login:          "merchant",
		Password:       "pw",
		MerchantID:     "M-1",
		CallbackSecret: testSecret,
		IsActive:       true,
	})
	s.accounts[a.ID()] = *a
}

// seedPurchase stores a pending subscription and its created transaction
// carrying externalID, as the buy flow leaves them.
func seedPurchase(s *memStore, ownerID uint, plan *subscription.Plan, externalID string) (uint, uint) {
	ctx := context.Background()
	sub, err := subscription.NewPendingSubscription(ownerID, plan.ID(), fixedNow)
	if err != nil {
		panic(err)
	}
	_ = memSubscriptionRepo{s}.Create(ctx, sub)

	txn, err := payment.NewTransaction(paymentVO.ProviderKassa24, ownerID, sub.ID(),
		paymentVO.NewMoney(plan.PriceKZT(), paymentVO.CurrencyKZT), fixedNow)
	if err != nil {
		panic(err)
	}
	txn.SetGatewayInfo(externalID, "https://pay.example/"+externalID, fixedNow)
	_ = memTransactionRepo{s}.Create(ctx, txn)
	return sub.ID(), txn.ID()
}
