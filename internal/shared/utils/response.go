package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
)

// ContextKeyLang is where the language middleware stores the negotiated language.
const ContextKeyLang = "lang"

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Data    interface{}          `json:"data"`
	Code    int                  `json:"code"`
	Message map[i18n.Lang]string `json:"message"`
	Lang    i18n.Lang            `json:"lang,omitempty"`
	Details string               `json:"details,omitempty"`
}

func langFromContext(c *gin.Context) i18n.Lang {
	if v, ok := c.Get(ContextKeyLang); ok {
		if l, ok := v.(i18n.Lang); ok {
			return l
		}
	}
	if c.Request != nil {
		return i18n.DetectLang(c.GetHeader("Accept-Language"))
	}
	return i18n.RU
}

func envelope(c *gin.Context, statusCode int, messageKey string, data interface{}) APIResponse {
	if messageKey == "" {
		messageKey = i18n.KeySuccess
	}
	return APIResponse{
		Data:    data,
		Code:    statusCode,
		Message: i18n.All(messageKey),
		Lang:    langFromContext(c),
	}
}

// SuccessResponse writes data with a localised message.
func SuccessResponse(c *gin.Context, statusCode int, messageKey string, data interface{}) {
	c.JSON(statusCode, envelope(c, statusCode, messageKey, data))
}

func CreatedResponse(c *gin.Context, messageKey string, data interface{}) {
	SuccessResponse(c, http.StatusCreated, messageKey, data)
}

// ErrorResponse writes an envelope with null data.
func ErrorResponse(c *gin.Context, statusCode int, messageKey string) {
	c.JSON(statusCode, envelope(c, statusCode, messageKey, nil))
}

// ErrorResponseWithError translates err into an envelope. Errors that are not
// AppErrors are reported as internal errors without details.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		ErrorResponse(c, http.StatusInternalServerError, i18n.KeyInternalError)
		return
	}

	key := appErr.Message
	if !i18n.Has(key) {
		key = defaultKeyFor(appErr.Type)
	}
	resp := envelope(c, appErr.Code, key, nil)
	if appErr.Type == errors.ErrorTypeValidation || appErr.Type == errors.ErrorTypeBadRequest {
		resp.Details = appErr.Details
	}
	c.JSON(appErr.Code, resp)
}

func defaultKeyFor(t errors.ErrorType) string {
	switch t {
	case errors.ErrorTypeValidation, errors.ErrorTypeBadRequest:
		return i18n.KeyInvalidRequest
	case errors.ErrorTypeUnauthorized:
		return i18n.KeyUnauthorized
	case errors.ErrorTypeForbidden:
		return i18n.KeyForbidden
	case errors.ErrorTypeBadGateway:
		return i18n.KeyGatewayError
	case errors.ErrorTypeTooManyRequests:
		return i18n.KeyRateLimited
	default:
		return i18n.KeyInternalError
	}
}
