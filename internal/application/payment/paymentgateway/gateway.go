// Package paymentgateway defines the provider-neutral contract used by the
// purchase and callback flows. One Gateway exists per provider code.
package paymentgateway

import (
	"context"

	"github.com/autopro-kz/autopro/internal/domain/payment"
	vo "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
)

type Gateway interface {
	Provider() vo.Provider
	// CreatePayment registers the payment with the provider. Every failure is
	// returned as a *GatewayError.
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error)
	// ParseCallback extracts the external id and numeric status from a raw
	// callback body. It does not verify authenticity.
	ParseCallback(body []byte) (*CallbackData, error)
	StatusTable() StatusTable
}

// CreatePaymentRequest carries everything a provider adapter needs. The
// account is resolved by the caller so adapters stay free of storage.
type CreatePaymentRequest struct {
	Account      *payment.Account
	Transaction  *payment.Transaction
	Subscription *subscription.OwnerSubscription
	Plan         *subscription.Plan
}

type CreatePaymentResponse struct {
	PaymentURL string
	ExternalID string
}

type CallbackData struct {
	ExternalID string
	StatusCode int
}
