package payment

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
)

// Account holds the merchant credentials used to talk to one provider.
// Only one account per provider is expected to be active at a time.
type Account struct {
	id             uint
	provider       vo.Provider
	login          string
	password       string
	merchantID     string
	callbackSecret string
	callbackURL    *string
	returnURL      *string
	successURL     *string
	failURL        *string
	demo           bool
	isActive       bool
	createdAt      time.Time
	updatedAt      time.Time
}

type AccountParams struct {
	ID             uint
	Provider       vo.Provider
	Login          string
	Password       string
	MerchantID     string
	CallbackSecret string
	CallbackURL    *string
	ReturnURL      *string
	SuccessURL     *string
	FailURL        *string
	Demo           bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewAccount(p AccountParams, now time.Time) (*Account, error) {
	a := &Account{
		provider:       vo.ParseProvider(p.Provider.String()),
		login:          strings.TrimSpace(p.Login),
		password:       p.Password,
		merchantID:     strings.TrimSpace(p.MerchantID),
		callbackSecret: p.CallbackSecret,
		callbackURL:    p.CallbackURL,
		returnURL:      p.ReturnURL,
		successURL:     p.SuccessURL,
		failURL:        p.FailURL,
		demo:           p.Demo,
		isActive:       p.IsActive,
		createdAt:      now,
		updatedAt:      now,
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func ReconstructAccount(p AccountParams) *Account {
	return &Account{
		id:             p.ID,
		provider:       p.Provider,
		login:          p.Login,
		password:       p.Password,
		merchantID:     p.MerchantID,
		callbackSecret: p.CallbackSecret,
		callbackURL:    p.CallbackURL,
		returnURL:      p.ReturnURL,
		successURL:     p.SuccessURL,
		failURL:        p.FailURL,
		demo:           p.Demo,
		isActive:       p.IsActive,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}
}

func (a *Account) validate() error {
	if a.provider.IsEmpty() {
		return fmt.Errorf("provider is required")
	}
	if a.login == "" {
		return fmt.Errorf("login is required")
	}
	if a.merchantID == "" {
		return fmt.Errorf("merchant ID is required")
	}
	if a.callbackSecret == "" {
		return fmt.Errorf("callback secret is required")
	}
	return nil
}

// AccountPatch is the allow-list of account fields an administrator may edit.
// An empty string clears an optional URL.
type AccountPatch struct {
	Login          *string
	Password       *string
	MerchantID     *string
	CallbackSecret *string
	CallbackURL    *string
	ReturnURL      *string
	SuccessURL     *string
	FailURL        *string
	Demo           *bool
	IsActive       *bool
}

func (a *Account) ApplyPatch(patch AccountPatch, now time.Time) error {
	next := *a
	if patch.Login != nil {
		next.login = strings.TrimSpace(*patch.Login)
	}
	if patch.Password != nil {
		next.password = *patch.Password
	}
	if patch.MerchantID != nil {
		next.merchantID = strings.TrimSpace(*patch.MerchantID)
	}
	if patch.CallbackSecret != nil {
		next.callbackSecret = *patch.CallbackSecret
	}
	next.callbackURL = patchURL(next.callbackURL, patch.CallbackURL)
	next.returnURL = patchURL(next.returnURL, patch.ReturnURL)
	next.successURL = patchURL(next.successURL, patch.SuccessURL)
	next.failURL = patchURL(next.failURL, patch.FailURL)
	if patch.Demo != nil {
		next.demo = *patch.Demo
	}
	if patch.IsActive != nil {
		next.isActive = *patch.IsActive
	}
	if err := next.validate(); err != nil {
		return err
	}
	next.updatedAt = now
	*a = next
	return nil
}

func patchURL(current, patch *string) *string {
	if patch == nil {
		return current
	}
	v := strings.TrimSpace(*patch)
	if v == "" {
		return nil
	}
	return &v
}

func (a *Account) SetID(id uint) {
	a.id = id
}

func (a *Account) ID() uint { return a.id }
func (a *Account) Provider() vo.Provider { return a.provider }
func (a *Account) Login() string { return a.login }
func (a *Account) Password() string { return a.password }
func (a *Account) MerchantID() string { return a.merchantID }
func (a *Account) CallbackSecret() string { return a.callbackSecret }
func (a *Account) CallbackURL() *string { return a.callbackURL }
func (a *Account) ReturnURL() *string { return a.returnURL }
func (a *Account) SuccessURL() *string { return a.successURL }
func (a *Account) FailURL() *string { return a.failURL }
func (a *Account) Demo() bool { return a.demo }
func (a *Account) IsActive() bool { return a.isActive }
func (a *Account) CreatedAt() time.Time { return a.createdAt }
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }
