package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
)

// BindJSON decodes the request body into req and runs its validate tags.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.NewValidationError(i18n.KeyInvalidRequest, "malformed JSON body")
	}
	return ValidateStruct(req)
}
