package payment

import (
	"context"
	"time"

	vo "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	// UpdateGatewayInfo persists the external id and payment url returned by the provider.
	UpdateGatewayInfo(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id uint) (*Transaction, error)
	GetByProviderExternalID(ctx context.Context, provider vo.Provider, externalID string) (*Transaction, error)
	// TransitionStatus moves a transaction out of the created state. It returns
	// false when another writer already made the transaction terminal.
	TransitionStatus(ctx context.Context, id uint, to vo.TransactionStatus, rawPayload []byte, now time.Time) (bool, error)
	ListBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*Transaction, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uint) (*Account, error)
	// GetActiveByProvider returns the single active account for provider or ErrAccountNotFound.
	GetActiveByProvider(ctx context.Context, provider vo.Provider) (*Account, error)
	// DeactivateOthers turns off every other active account of the same provider.
	DeactivateOthers(ctx context.Context, provider vo.Provider, keepID uint) error
	List(ctx context.Context) ([]*Account, error)
}
