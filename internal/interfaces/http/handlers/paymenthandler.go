package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentdto "github.com/autopro-kz/autopro/internal/application/payment/dto"
	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

const (
	DefaultSignatureHeader = "X-Signature"
	maxCallbackBodyBytes   = 64 << 10
)

type handleCallbackUseCase interface {
	Execute(ctx context.Context, cmd paymentUsecases.HandleCallbackCommand) (paymentUsecases.CallbackResult, error)
}

// PaymentHandler receives provider callbacks. The body must reach the use case
// byte for byte since the signature covers the raw bytes.
type PaymentHandler struct {
	callbackUC      handleCallbackUseCase
	signatureHeader string
	logger          logger.Interface
}

func NewPaymentHandler(callbackUC handleCallbackUseCase, signatureHeader string, logger logger.Interface) *PaymentHandler {
	if signatureHeader == "" {
		signatureHeader = DefaultSignatureHeader
	}
	return &PaymentHandler{
		callbackUC:      callbackUC,
		signatureHeader: signatureHeader,
		logger:          logger,
	}
}

// @Summary		Payment provider callback
// @Description	Signed status notification from a payment provider. Unmatched, duplicate and malformed payloads are acknowledged.
// @Tags			payments
// @Accept			json
// @Produce		json
// @Param			provider		path		string	true	"Provider code, e.g. kassa24"
// @Param			X-Signature	header		string	true	"hex(HMAC-SHA256(body, callback_secret))"
// @Success		200			{object}	utils.APIResponse{data=dto.CallbackAckDTO}
// @Failure		400			{object}	utils.APIResponse	"Unsupported provider"
// @Failure		403			{object}	utils.APIResponse	"Invalid signature"
// @Router			/subscriptions/payments/{provider}/callback [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxCallbackBodyBytes))
	if err != nil {
		h.logger.Warnw("failed to read callback body", "provider", provider, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, i18n.KeyInvalidRequest)
		return
	}

	result, err := h.callbackUC.Execute(c.Request.Context(), paymentUsecases.HandleCallbackCommand{
		Provider:  provider,
		Body:      body,
		Signature: c.GetHeader(h.signatureHeader),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Debugw("payment callback handled", "provider", provider, "result", result)
	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, paymentdto.CallbackAckDTO{Accepted: true})
}
