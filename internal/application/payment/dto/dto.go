package dto

import (
	"time"

	"github.com/autopro-kz/autopro/internal/domain/payment"
)

type CallbackAckDTO struct {
	Accepted bool `json:"accepted"`
}

// PaymentAccountDTO never exposes the password or callback secret; only
// whether they are set.
type PaymentAccountDTO struct {
	ID                uint      `json:"id"`
	Provider          string    `json:"provider"`
	Login             string    `json:"login"`
	MerchantID        string    `json:"merchant_id"`
	HasPassword       bool      `json:"has_password"`
	HasCallbackSecret bool      `json:"has_callback_secret"`
	CallbackURL       *string   `json:"callback_url"`
	ReturnURL         *string   `json:"return_url"`
	SuccessURL        *string   `json:"success_url"`
	FailURL           *string   `json:"fail_url"`
	Demo              bool      `json:"demo"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func ToPaymentAccountDTO(a *payment.Account) *PaymentAccountDTO {
	if a == nil {
		return nil
	}
	return &PaymentAccountDTO{
		ID:                a.ID(),
		Provider:          a.Provider().String(),
		Login:             a.Login(),
		MerchantID:        a.MerchantID(),
		HasPassword:       a.Password() != "",
		HasCallbackSecret: a.CallbackSecret() != "",
		CallbackURL:       a.CallbackURL(),
		ReturnURL:         a.ReturnURL(),
		SuccessURL:        a.SuccessURL(),
		FailURL:           a.FailURL(),
		Demo:              a.Demo(),
		IsActive:          a.IsActive(),
		CreatedAt:         a.CreatedAt(),
		UpdatedAt:         a.UpdatedAt(),
	}
}
