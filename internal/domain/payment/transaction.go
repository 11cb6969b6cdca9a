package payment

import (
	"fmt"
	"strconv"
	"time"

	vo "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
)

// Transaction is one payment attempt against one subscription.
type Transaction struct {
	id             uint
	provider       vo.Provider
	externalID     *string
	orderID        string
	status         vo.TransactionStatus
	amount         vo.Money
	ownerID        uint
	subscriptionID uint
	paymentURL     *string
	rawPayload     []byte
	createdAt      time.Time
	updatedAt      time.Time
}

// NewTransaction creates a transaction in the created state. The order id is
// derived from the subscription id so it is stable across retries of the
// same provider request.
func NewTransaction(provider vo.Provider, ownerID, subscriptionID uint, amount vo.Money, now time.Time) (*Transaction, error) {
	if provider.IsEmpty() {
		return nil, fmt.Errorf("provider is required")
	}
	if ownerID == 0 {
		return nil, fmt.Errorf("owner ID is required")
	}
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	return &Transaction{
		provider:       provider,
		orderID:        OrderIDForSubscription(subscriptionID),
		status:         vo.TransactionStatusCreated,
		amount:         amount,
		ownerID:        ownerID,
		subscriptionID: subscriptionID,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func OrderIDForSubscription(subscriptionID uint) string {
	return strconv.FormatUint(uint64(subscriptionID), 10)
}

// SetGatewayInfo records what the provider returned for the create-payment call.
func (t *Transaction) SetGatewayInfo(externalID, paymentURL string, now time.Time) {
	t.externalID = &externalID
	t.paymentURL = &paymentURL
	t.updatedAt = now
}

// ApplyOutcome moves a created transaction to success or failed and stores
// the raw callback body. It returns false without touching anything when the
// transaction is already terminal.
func (t *Transaction) ApplyOutcome(success bool, rawPayload []byte, now time.Time) bool {
	if t.status.IsTerminal() {
		return false
	}
	if success {
		t.status = vo.TransactionStatusSuccess
	} else {
		t.status = vo.TransactionStatusFailed
	}
	t.rawPayload = rawPayload
	t.updatedAt = now
	return true
}

func (t *Transaction) SetID(id uint) {
	t.id = id
}

func (t *Transaction) ID() uint {
	return t.id
}

func (t *Transaction) Provider() vo.Provider {
	return t.provider
}

func (t *Transaction) ExternalID() *string {
	return t.externalID
}

func (t *Transaction) OrderID() string {
	return t.orderID
}

func (t *Transaction) Status() vo.TransactionStatus {
	return t.status
}

func (t *Transaction) Amount() vo.Money {
	return t.amount
}

func (t *Transaction) OwnerID() uint {
	return t.ownerID
}

func (t *Transaction) SubscriptionID() uint {
	return t.subscriptionID
}

func (t *Transaction) PaymentURL() *string {
	return t.paymentURL
}

func (t *Transaction) RawPayload() []byte {
	return t.rawPayload
}

func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Transaction) UpdatedAt() time.Time {
	return t.updatedAt
}

// TransactionReconstructParams holds all fields needed to rebuild a Transaction from storage.
type TransactionReconstructParams struct {
	ID             uint
	Provider       vo.Provider
	ExternalID     *string
	OrderID        string
	Status         vo.TransactionStatus
	Amount         vo.Money
	OwnerID        uint
	SubscriptionID uint
	PaymentURL     *string
	RawPayload     []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ReconstructTransactionWithParams(p TransactionReconstructParams) *Transaction {
	return &Transaction{
		id:             p.ID,
		provider:       p.Provider,
		externalID:     p.ExternalID,
		orderID:        p.OrderID,
		status:         p.Status,
		amount:         p.Amount,
		ownerID:        p.OwnerID,
		subscriptionID: p.SubscriptionID,
		paymentURL:     p.PaymentURL,
		rawPayload:     p.RawPayload,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}
}
