package valueobjects

import "fmt"

const (
	CurrencyKZT = "KZT"

	// MinorUnitsPerTenge is the tenge to tiyn scale used by providers that
	// accept amounts in minor units.
	MinorUnitsPerTenge = 100
)

// Money is an amount in whole major units, matching how plan prices are stored.
type Money struct {
	amount   int64
	currency string
}

func NewMoney(amount int64, currency string) Money {
	if currency == "" {
		currency = CurrencyKZT
	}
	return Money{
		amount:   amount,
		currency: currency,
	}
}

func (m Money) Amount() int64 {
	return m.amount
}

// MinorUnits returns the amount scaled to tiyn (x100).
func (m Money) MinorUnits() int64 {
	return m.amount * MinorUnitsPerTenge
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

func (m Money) IsPositive() bool {
	return m.amount > 0
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amount, m.currency)
}
