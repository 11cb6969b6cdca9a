package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatus(t *testing.T) {
	assert.False(t, TransactionStatusCreated.IsTerminal())
	assert.True(t, TransactionStatusSuccess.IsTerminal())
	assert.True(t, TransactionStatusFailed.IsTerminal())
	assert.True(t, TransactionStatusSuccess.IsSuccess())
	assert.False(t, TransactionStatus("paid").IsValid())
}

func TestMoney_MinorUnits(t *testing.T) {
	m := NewMoney(4990, "")
	assert.Equal(t, CurrencyKZT, m.Currency())
	assert.Equal(t, int64(4990), m.Amount())
	assert.Equal(t, int64(499000), m.MinorUnits())
	assert.Equal(t, "4990 KZT", m.String())
	assert.True(t, m.IsPositive())
	assert.False(t, NewMoney(0, CurrencyKZT).IsPositive())
}

func TestParseProvider(t *testing.T) {
	assert.Equal(t, ProviderKassa24, ParseProvider(" Kassa24 "))
	assert.True(t, ParseProvider("").IsEmpty())
}
