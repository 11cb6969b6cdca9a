package valueobjects

type TransactionStatus string

const (
	TransactionStatusCreated TransactionStatus = "created"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusCreated, TransactionStatusSuccess, TransactionStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further callback may change the status.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}

func (s TransactionStatus) IsSuccess() bool {
	return s == TransactionStatusSuccess
}

func (s TransactionStatus) String() string {
	return string(s)
}
