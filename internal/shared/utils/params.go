package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
)

// ParseUintParam reads a positive numeric path parameter.
func ParseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, errors.NewValidationError(i18n.KeyInvalidRequest, "invalid "+name)
	}
	return uint(v), nil
}

// GetUserID returns the authenticated user id set by the auth middleware.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
