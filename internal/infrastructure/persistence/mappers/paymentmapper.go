package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/autopro-kz/autopro/internal/domain/payment"
	vo "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
)

func TransactionToModel(t *payment.Transaction) *models.PaymentTransactionModel {
	model := &models.PaymentTransactionModel{
		ID:             t.ID(),
		Provider:       t.Provider().String(),
		ExternalID:     t.ExternalID(),
		OrderID:        t.OrderID(),
		Status:         t.Status().String(),
		AmountKZT:      t.Amount().Amount(),
		Currency:       t.Amount().Currency(),
		OwnerID:        t.OwnerID(),
		SubscriptionID: t.SubscriptionID(),
		PaymentURL:     t.PaymentURL(),
		CreatedAt:      t.CreatedAt(),
		UpdatedAt:      t.UpdatedAt(),
	}
	if raw := RawPayloadJSON(t.RawPayload()); raw != nil {
		model.RawData = raw
	}
	return model
}

func TransactionToDomain(m *models.PaymentTransactionModel) (*payment.Transaction, error) {
	status := vo.TransactionStatus(m.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid transaction status: %s", m.Status)
	}
	var raw []byte
	if len(m.RawData) > 0 {
		raw = []byte(m.RawData)
	}
	return payment.ReconstructTransactionWithParams(payment.TransactionReconstructParams{
		ID:             m.ID,
		Provider:       vo.Provider(m.Provider),
		ExternalID:     m.ExternalID,
		OrderID:        m.OrderID,
		Status:         status,
		Amount:         vo.NewMoney(m.AmountKZT, m.Currency),
		OwnerID:        m.OwnerID,
		SubscriptionID: m.SubscriptionID,
		PaymentURL:     m.PaymentURL,
		RawPayload:     raw,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}), nil
}

// RawPayloadJSON stores provider bodies as-is when they are valid JSON and as
// a JSON string otherwise, so the column never holds invalid JSON.
func RawPayloadJSON(raw []byte) datatypes.JSON {
	if len(raw) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return datatypes.JSON(raw)
	}
	quoted, err := json.Marshal(string(raw))
	if err != nil {
		return nil
	}
	return datatypes.JSON(quoted)
}

func AccountToModel(a *payment.Account) *models.PaymentAccountModel {
	return &models.PaymentAccountModel{
		ID:             a.ID(),
		Provider:       a.Provider().String(),
		Login:          a.Login(),
		Password:       a.Password(),
		MerchantID:     a.MerchantID(),
		CallbackSecret: a.CallbackSecret(),
		CallbackURL:    a.CallbackURL(),
		ReturnURL:      a.ReturnURL(),
		SuccessURL:     a.SuccessURL(),
		FailURL:        a.FailURL(),
		Demo:           a.Demo(),
		IsActive:       a.IsActive(),
		CreatedAt:      a.CreatedAt(),
		UpdatedAt:      a.UpdatedAt(),
	}
}

func AccountToDomain(m *models.PaymentAccountModel) *payment.Account {
	return payment.ReconstructAccount(payment.AccountParams{
		ID:             m.ID,
		Provider:       vo.Provider(m.Provider),
		Login:          m.Login,
		Password:       m.Password,
		MerchantID:     m.MerchantID,
		CallbackSecret: m.CallbackSecret,
		CallbackURL:    m.CallbackURL,
		ReturnURL:      m.ReturnURL,
		SuccessURL:     m.SuccessURL,
		FailURL:        m.FailURL,
		Demo:           m.Demo,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	})
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
