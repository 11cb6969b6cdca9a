package payment

import "errors"

var (
	ErrTransactionNotFound   = errors.New("payment transaction not found")
	ErrAccountNotFound       = errors.New("payment account not found")
	ErrTransactionStateRaced = errors.New("payment transaction changed concurrently")
)
