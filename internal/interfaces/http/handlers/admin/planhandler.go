// Package admin holds the administrator endpoints for the plan catalog,
// merchant accounts and listing moderation.
package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	subdto "github.com/autopro-kz/autopro/internal/application/subscription/dto"
	subUsecases "github.com/autopro-kz/autopro/internal/application/subscription/usecases"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

type listPlansUseCase interface {
	Execute(ctx context.Context, query subUsecases.ListPlansQuery) ([]*subdto.PlanDTO, error)
}

type getPlanUseCase interface {
	Execute(ctx context.Context, planID uint) (*subdto.PlanDTO, error)
}

type upsertPlanUseCase interface {
	Execute(ctx context.Context, cmd subUsecases.UpsertPlanCommand) (*subUsecases.UpsertPlanResult, error)
}

type updatePlanUseCase interface {
	Execute(ctx context.Context, cmd subUsecases.UpdatePlanCommand) (*subdto.PlanDTO, error)
}

type PlanHandler struct {
	listUC   listPlansUseCase
	getUC    getPlanUseCase
	upsertUC upsertPlanUseCase
	updateUC updatePlanUseCase
	logger   logger.Interface
}

func NewPlanHandler(
	listUC listPlansUseCase,
	getUC getPlanUseCase,
	upsertUC upsertPlanUseCase,
	updateUC updatePlanUseCase,
	logger logger.Interface,
) *PlanHandler {
	return &PlanHandler{
		listUC:   listUC,
		getUC:    getUC,
		upsertUC: upsertUC,
		updateUC: updateUC,
		logger:   logger,
	}
}

// UpsertPlanRequest creates a plan or replaces the plan with the same code.
// A null max_cars means unlimited.
type UpsertPlanRequest struct {
	Code        string `json:"code" validate:"required,alphanum,max=50"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=10000"`
	PriceKZT    int64  `json:"price_kzt" validate:"gt=0"`
	PeriodDays  int    `json:"period_days" validate:"gt=0,lte=3660"`
	FreeDays    int    `json:"free_days" validate:"gte=0,lte=366"`
	MaxCars     *int   `json:"max_cars" validate:"omitempty,gte=0"`
	IsActive    *bool  `json:"is_active"`
}

// PlanPatchRequest lists the editable plan fields. The code is immutable.
type PlanPatchRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string `json:"description" validate:"omitempty,max=10000"`
	PriceKZT     *int64  `json:"price_kzt" validate:"omitempty,gt=0"`
	PeriodDays   *int    `json:"period_days" validate:"omitempty,gt=0,lte=3660"`
	FreeDays     *int    `json:"free_days" validate:"omitempty,gte=0,lte=366"`
	MaxCars      *int    `json:"max_cars" validate:"omitempty,gte=0"`
	ClearMaxCars bool    `json:"clear_max_cars"`
	IsActive     *bool   `json:"is_active"`
}

func (r PlanPatchRequest) toPatch() subscription.PlanPatch {
	return subscription.PlanPatch{
		Name:         r.Name,
		Description:  r.Description,
		PriceKZT:     r.PriceKZT,
		PeriodDays:   r.PeriodDays,
		FreeDays:     r.FreeDays,
		MaxCars:      r.MaxCars,
		ClearMaxCars: r.ClearMaxCars,
		IsActive:     r.IsActive,
	}
}

// @Summary		List all plans
// @Description	Active and inactive plans
// @Tags			admin-plans
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=[]dto.PlanDTO}
// @Failure		403	{object}	utils.APIResponse
// @Router			/admin/plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.listUC.Execute(c.Request.Context(), subUsecases.ListPlansQuery{IncludeInactive: true})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, plans)
}

// @Summary		Get plan
// @Tags			admin-plans
// @Produce		json
// @Security		Bearer
// @Param			id	path		int	true	"Plan ID"
// @Success		200	{object}	utils.APIResponse{data=dto.PlanDTO}
// @Failure		404	{object}	utils.APIResponse
// @Router			/admin/plans/{id} [get]
func (h *PlanHandler) Get(c *gin.Context) {
	planID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	plan, err := h.getUC.Execute(c.Request.Context(), planID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, plan)
}

// @Summary		Upsert plan
// @Description	Create a plan, or overwrite the plan with the same code. Existing subscriptions keep their window.
// @Tags			admin-plans
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			plan	body		UpsertPlanRequest						true	"Plan"
// @Success		200		{object}	utils.APIResponse{data=dto.PlanDTO}	"Updated"
// @Success		201		{object}	utils.APIResponse{data=dto.PlanDTO}	"Created"
// @Failure		400		{object}	utils.APIResponse
// @Router			/admin/plans [post]
func (h *PlanHandler) Upsert(c *gin.Context) {
	var req UpsertPlanRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	result, err := h.upsertUC.Execute(c.Request.Context(), subUsecases.UpsertPlanCommand{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		PriceKZT:    req.PriceKZT,
		PeriodDays:  req.PeriodDays,
		FreeDays:    req.FreeDays,
		MaxCars:     req.MaxCars,
		IsActive:    isActive,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Created {
		utils.CreatedResponse(c, i18n.KeySuccess, result.Plan)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, result.Plan)
}

// @Summary		Patch plan
// @Tags			admin-plans
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			id		path		int								true	"Plan ID"
// @Param			patch	body		PlanPatchRequest					true	"Fields to change"
// @Success		200		{object}	utils.APIResponse{data=dto.PlanDTO}
// @Failure		400		{object}	utils.APIResponse
// @Failure		404		{object}	utils.APIResponse
// @Router			/admin/plans/{id} [patch]
func (h *PlanHandler) Update(c *gin.Context) {
	planID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PlanPatchRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	plan, err := h.updateUC.Execute(c.Request.Context(), subUsecases.UpdatePlanCommand{
		PlanID: planID,
		Patch:  req.toPatch(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("plan patched by admin", "plan_id", planID, "admin_id", c.GetUint("user_id"))
	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, plan)
}
