package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentdto "github.com/autopro-kz/autopro/internal/application/payment/dto"
	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
	"github.com/autopro-kz/autopro/internal/domain/payment"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

type paymentAccountsUseCase interface {
	List(ctx context.Context) ([]*paymentdto.PaymentAccountDTO, error)
	Create(ctx context.Context, cmd paymentUsecases.CreatePaymentAccountCommand) (*paymentdto.PaymentAccountDTO, error)
	Update(ctx context.Context, cmd paymentUsecases.UpdatePaymentAccountCommand) (*paymentdto.PaymentAccountDTO, error)
}

type PaymentAccountHandler struct {
	accountsUC paymentAccountsUseCase
	logger     logger.Interface
}

func NewPaymentAccountHandler(accountsUC paymentAccountsUseCase, logger logger.Interface) *PaymentAccountHandler {
	return &PaymentAccountHandler{accountsUC: accountsUC, logger: logger}
}

type CreatePaymentAccountRequest struct {
	Provider       string  `json:"provider" validate:"required,oneof=kassa24"`
	Login          string  `json:"login" validate:"required,max=255"`
	Password       string  `json:"password" validate:"max=255"`
	MerchantID     string  `json:"merchant_id" validate:"required,max=255"`
	CallbackSecret string  `json:"callback_secret" validate:"required,min=16,max=255"`
	CallbackURL    *string `json:"callback_url" validate:"omitempty,url"`
	ReturnURL      *string `json:"return_url" validate:"omitempty,url"`
	SuccessURL     *string `json:"success_url" validate:"omitempty,url"`
	FailURL        *string `json:"fail_url" validate:"omitempty,url"`
	Demo           bool    `json:"demo"`
	IsActive       *bool   `json:"is_active"`
}

// PaymentAccountPatchRequest lists the editable account fields. An empty URL
// clears it.
type PaymentAccountPatchRequest struct {
	Login          *string `json:"login" validate:"omitempty,max=255"`
	Password       *string `json:"password" validate:"omitempty,max=255"`
	MerchantID     *string `json:"merchant_id" validate:"omitempty,max=255"`
	CallbackSecret *string `json:"callback_secret" validate:"omitempty,min=16,max=255"`
	CallbackURL    *string `json:"callback_url" validate:"omitempty,url|eq="`
	ReturnURL      *string `json:"return_url" validate:"omitempty,url|eq="`
	SuccessURL     *string `json:"success_url" validate:"omitempty,url|eq="`
	FailURL        *string `json:"fail_url" validate:"omitempty,url|eq="`
	Demo           *bool   `json:"demo"`
	IsActive       *bool   `json:"is_active"`
}

func (r PaymentAccountPatchRequest) toPatch() payment.AccountPatch {
	return payment.AccountPatch{
		Login:          r.Login,
		Password:       r.Password,
		MerchantID:     r.MerchantID,
		CallbackSecret: r.CallbackSecret,
		CallbackURL:    r.CallbackURL,
		ReturnURL:      r.ReturnURL,
		SuccessURL:     r.SuccessURL,
		FailURL:        r.FailURL,
		Demo:           r.Demo,
		IsActive:       r.IsActive,
	}
}

// @Summary		List payment accounts
// @Description	Secrets are never returned, only whether they are set
// @Tags			admin-payment-accounts
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=[]dto.PaymentAccountDTO}
// @Router			/admin/payment-accounts [get]
func (h *PaymentAccountHandler) List(c *gin.Context) {
	accounts, err := h.accountsUC.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, accounts)
}

// @Summary		Create payment account
// @Description	Activating an account deactivates the other accounts of the same provider
// @Tags			admin-payment-accounts
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			account	body		CreatePaymentAccountRequest						true	"Account"
// @Success		201		{object}	utils.APIResponse{data=dto.PaymentAccountDTO}
// @Failure		400		{object}	utils.APIResponse
// @Router			/admin/payment-accounts [post]
func (h *PaymentAccountHandler) Create(c *gin.Context) {
	var req CreatePaymentAccountRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	account, err := h.accountsUC.Create(c.Request.Context(), paymentUsecases.CreatePaymentAccountCommand{
		Provider:       req.Provider,
		Login:          req.Login,
		Password:       req.Password,
		MerchantID:     req.MerchantID,
		CallbackSecret: req.CallbackSecret,
		CallbackURL:    req.CallbackURL,
		ReturnURL:      req.ReturnURL,
		SuccessURL:     req.SuccessURL,
		FailURL:        req.FailURL,
		Demo:           req.Demo,
		IsActive:       isActive,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.KeySuccess, account)
}

// @Summary		Patch payment account
// @Tags			admin-payment-accounts
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			id		path		int											true	"Account ID"
// @Param			patch	body		PaymentAccountPatchRequest						true	"Fields to change"
// @Success		200		{object}	utils.APIResponse{data=dto.PaymentAccountDTO}
// @Failure		400		{object}	utils.APIResponse
// @Failure		404		{object}	utils.APIResponse
// @Router			/admin/payment-accounts/{id} [patch]
func (h *PaymentAccountHandler) Update(c *gin.Context) {
	accountID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PaymentAccountPatchRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	account, err := h.accountsUC.Update(c.Request.Context(), paymentUsecases.UpdatePaymentAccountCommand{
		AccountID: accountID,
		Patch:     req.toPatch(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, account)
}
