package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userUsecases "github.com/autopro-kz/autopro/internal/application/user/usecases"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

// AuthHandler handles registration and password login.
type AuthHandler struct {
	registerUC registerUseCase
	loginUC    loginUseCase
	getMeUC    getMeUseCase
	logger     logger.Interface
}

func NewAuthHandler(
	registerUC registerUseCase,
	loginUC loginUseCase,
	getMeUC getMeUseCase,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		getMeUC:    getMeUC,
		logger:     logger,
	}
}

type RegisterRequest struct {
	Login       string  `json:"login" validate:"required,min=3,max=64"`
	Name        string  `json:"name" validate:"required,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Password    string  `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// @Summary		Register
// @Description	Create an owner account
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			user	body		RegisterRequest							true	"Registration data"
// @Success		201		{object}	utils.APIResponse{data=dto.UserDTO}	"User created"
// @Failure		400		{object}	utils.APIResponse						"Bad request"
// @Failure		409		{object}	utils.APIResponse						"Login already taken"
// @Router			/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.registerUC.Execute(c.Request.Context(), userUsecases.RegisterCommand{
		Login:       req.Login,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.KeySuccess, result)
}

// @Summary		Login
// @Description	Exchange login and password for an access token
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			credentials	body		LoginRequest								true	"Credentials"
// @Success		200			{object}	utils.APIResponse{data=dto.AuthResultDTO}	"Logged in"
// @Failure		401			{object}	utils.APIResponse							"Wrong login or password"
// @Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.loginUC.Execute(c.Request.Context(), userUsecases.LoginCommand{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, i18n.KeyLoginSuccess, result)
}

// @Summary		Current user
// @Tags			auth
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=dto.UserDTO}
// @Failure		401	{object}	utils.APIResponse
// @Router			/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, i18n.KeyUnauthorized)
		return
	}

	result, err := h.getMeUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, result)
}
