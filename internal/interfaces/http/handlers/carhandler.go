package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	listingdto "github.com/autopro-kz/autopro/internal/application/listing/dto"
	listingUsecases "github.com/autopro-kz/autopro/internal/application/listing/usecases"
	vo "github.com/autopro-kz/autopro/internal/domain/user/valueobjects"
	"github.com/autopro-kz/autopro/internal/shared/constants"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

type createCarUseCase interface {
	Execute(ctx context.Context, cmd listingUsecases.CreateCarCommand) (*listingdto.CarDTO, error)
}

type listMyCarsUseCase interface {
	Execute(ctx context.Context, ownerID uint) ([]*listingdto.CarDTO, error)
}

type deleteCarUseCase interface {
	Execute(ctx context.Context, cmd listingUsecases.DeleteCarCommand) error
}

type carCatalogUseCase interface {
	Execute(ctx context.Context, query listingUsecases.ListCarsQuery) ([]*listingdto.CarDTO, error)
}

type CarHandler struct {
	createUC  createCarUseCase
	listUC    listMyCarsUseCase
	deleteUC  deleteCarUseCase
	catalogUC carCatalogUseCase
	logger    logger.Interface
}

func NewCarHandler(
	createUC createCarUseCase,
	listUC listMyCarsUseCase,
	deleteUC deleteCarUseCase,
	catalogUC carCatalogUseCase,
	logger logger.Interface,
) *CarHandler {
	return &CarHandler{
		createUC:  createUC,
		listUC:    listUC,
		deleteUC:  deleteUC,
		catalogUC: catalogUC,
		logger:    logger,
	}
}

// @Summary		Car catalog
// @Description	Published listings: moderated and not deleted
// @Tags			cars
// @Produce		json
// @Success		200	{object}	utils.APIResponse{data=[]dto.CarDTO}
// @Router			/cars [get]
func (h *CarHandler) List(c *gin.Context) {
	published := true
	cars, err := h.catalogUC.Execute(c.Request.Context(), listingUsecases.ListCarsQuery{IsActive: &published})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, cars)
}

type CreateCarRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	PricePerDay *int64  `json:"price_per_day" validate:"omitempty,gt=0"`
	ReleaseYear *int    `json:"release_year" validate:"omitempty,gte=1950,lte=2100"`
}

// @Summary		Publish car
// @Description	Create a listing awaiting moderation. Requires an active subscription with room under its car limit.
// @Tags			cars
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			car	body		CreateCarRequest						true	"Car data"
// @Success		201	{object}	utils.APIResponse{data=dto.CarDTO}
// @Failure		403	{object}	utils.APIResponse	"no_subscription or car_limit_reached"
// @Router			/cars [post]
func (h *CarHandler) Create(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, i18n.KeyUnauthorized)
		return
	}

	var req CreateCarRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	car, err := h.createUC.Execute(c.Request.Context(), listingUsecases.CreateCarCommand{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		PricePerDay: req.PricePerDay,
		ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.KeyClientApplicationSent, car)
}

// @Summary		My cars
// @Tags			cars
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=[]dto.CarDTO}
// @Router			/cars/mine [get]
func (h *CarHandler) ListMine(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, i18n.KeyUnauthorized)
		return
	}

	cars, err := h.listUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, cars)
}

// @Summary		Delete car
// @Description	Soft delete; the car stops counting toward the subscription limit
// @Tags			cars
// @Produce		json
// @Security		Bearer
// @Param			id	path		int	true	"Car ID"
// @Success		200	{object}	utils.APIResponse
// @Failure		403	{object}	utils.APIResponse	"Not the author"
// @Failure		404	{object}	utils.APIResponse	"Car not found"
// @Router			/cars/{id} [delete]
func (h *CarHandler) Delete(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, i18n.KeyUnauthorized)
		return
	}

	carID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	err = h.deleteUC.Execute(c.Request.Context(), listingUsecases.DeleteCarCommand{
		CarID:   carID,
		UserID:  userID,
		IsAdmin: vo.Role(c.GetString(constants.ContextKeyUserRole)).IsAdmin(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, i18n.KeyCarDeleted, nil)
}
