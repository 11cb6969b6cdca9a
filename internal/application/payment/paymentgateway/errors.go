package paymentgateway

import (
	"errors"
	"fmt"

	vo "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
)

// ErrGateway matches every *GatewayError through errors.Is.
var ErrGateway = errors.New("payment gateway error")

// GatewayError is the single failure shape of outbound provider calls:
// missing account, transport failure, non-2xx status or malformed response.
type GatewayError struct {
	Provider vo.Provider
	Reason   string
	Err      error
}

func NewGatewayError(provider vo.Provider, reason string, err error) *GatewayError {
	return &GatewayError{Provider: provider, Reason: reason, Err: err}
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s gateway: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s gateway: %s", e.Provider, e.Reason)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}
