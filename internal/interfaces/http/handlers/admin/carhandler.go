package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	listingdto "github.com/autopro-kz/autopro/internal/application/listing/dto"
	listingUsecases "github.com/autopro-kz/autopro/internal/application/listing/usecases"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

type listCarsUseCase interface {
	Execute(ctx context.Context, query listingUsecases.ListCarsQuery) ([]*listingdto.CarDTO, error)
}

type toggleCarActiveUseCase interface {
	Execute(ctx context.Context, carID uint) (*listingdto.CarDTO, error)
}

type CarHandler struct {
	listUC   listCarsUseCase
	toggleUC toggleCarActiveUseCase
	logger   logger.Interface
}

func NewCarHandler(listUC listCarsUseCase, toggleUC toggleCarActiveUseCase, logger logger.Interface) *CarHandler {
	return &CarHandler{listUC: listUC, toggleUC: toggleUC, logger: logger}
}

type ListCarsRequest struct {
	IsActive *bool `form:"is_active"`
}

// @Summary		List cars for moderation
// @Description	Non-deleted listings; is_active=false returns the moderation queue
// @Tags			admin-cars
// @Produce		json
// @Security		Bearer
// @Param			is_active	query		bool	false	"Filter by moderation state"
// @Success		200			{object}	utils.APIResponse{data=[]dto.CarDTO}
// @Failure		403			{object}	utils.APIResponse
// @Router			/admin/cars [get]
func (h *CarHandler) List(c *gin.Context) {
	var req ListCarsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(i18n.KeyInvalidRequest, "invalid is_active"))
		return
	}

	cars, err := h.listUC.Execute(c.Request.Context(), listingUsecases.ListCarsQuery{IsActive: req.IsActive})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, cars)
}

// @Summary		Toggle car moderation
// @Description	Publishes a pending listing or takes a published one down
// @Tags			admin-cars
// @Produce		json
// @Security		Bearer
// @Param			id	path		int	true	"Car ID"
// @Success		200	{object}	utils.APIResponse{data=dto.CarDTO}
// @Failure		404	{object}	utils.APIResponse
// @Router			/admin/cars/{id}/toggle-active [post]
func (h *CarHandler) ToggleActive(c *gin.Context) {
	carID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	car, err := h.toggleUC.Execute(c.Request.Context(), carID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, car)
}
