package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subUsecases "github.com/autopro-kz/autopro/internal/application/subscription/usecases"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

// SubscriptionHandler serves the owner-facing subscription endpoints.
type SubscriptionHandler struct {
	listPlansUC   listPlansUseCase
	getActiveUC   getActiveSubscriptionUseCase
	buyUC         buySubscriptionUseCase
	entitlementUC canPublishListingUseCase
	logger        logger.Interface
}

func NewSubscriptionHandler(
	listPlansUC listPlansUseCase,
	getActiveUC getActiveSubscriptionUseCase,
	buyUC buySubscriptionUseCase,
	entitlementUC canPublishListingUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		listPlansUC:   listPlansUC,
		getActiveUC:   getActiveUC,
		buyUC:         buyUC,
		entitlementUC: entitlementUC,
		logger:        logger,
	}
}

type BuySubscriptionRequest struct {
	PlanID   uint   `json:"plan_id" validate:"required,gt=0"`
	Provider string `json:"provider" validate:"required,max=32"`
}

// @Summary		List plans
// @Description	Active subscription plans ordered by price
// @Tags			subscriptions
// @Produce		json
// @Success		200	{object}	utils.APIResponse{data=[]dto.PlanDTO}
// @Router			/subscriptions/plans [get]
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.listPlansUC.Execute(c.Request.Context(), subUsecases.ListPlansQuery{})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, plans)
}

// @Summary		Current subscription
// @Description	The caller's current subscription, or null data when there is none
// @Tags			subscriptions
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=dto.SubscriptionSummaryDTO}
// @Failure		401	{object}	utils.APIResponse
// @Router			/subscriptions/me [get]
func (h *SubscriptionHandler) GetMine(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, i18n.KeyUnauthorized)
		return
	}

	summary, err := h.getActiveUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if summary == nil {
		utils.SuccessResponse(c, http.StatusOK, i18n.KeyNoSubscription, nil)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, summary)
}

// @Summary		Buy subscription
// @Description	Create a pending subscription and a payment at the provider
// @Tags			subscriptions
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			request	body		BuySubscriptionRequest							true	"Plan and provider"
// @Success		200		{object}	utils.APIResponse{data=dto.BuyResultDTO}
// @Failure		400		{object}	utils.APIResponse	"Unsupported provider"
// @Failure		404		{object}	utils.APIResponse	"Plan not found or inactive"
// @Failure		429		{object}	utils.APIResponse
// @Failure		502		{object}	utils.APIResponse	"Payment provider error"
// @Router			/subscriptions/buy [post]
func (h *SubscriptionHandler) Buy(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, i18n.KeyUnauthorized)
		return
	}

	var req BuySubscriptionRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.buyUC.Execute(c.Request.Context(), subUsecases.BuySubscriptionCommand{
		OwnerID:  userID,
		PlanID:   req.PlanID,
		Provider: req.Provider,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, result)
}

// @Summary		Listing entitlement
// @Description	Whether the caller may publish one more listing right now
// @Tags			subscriptions
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=usecases.Decision}
// @Failure		401	{object}	utils.APIResponse
// @Router			/subscriptions/entitlement [get]
func (h *SubscriptionHandler) Entitlement(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, i18n.KeyUnauthorized)
		return
	}

	decision, err := h.entitlementUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, decision)
}
