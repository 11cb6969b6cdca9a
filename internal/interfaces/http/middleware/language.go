package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/autopro-kz/autopro/internal/shared/constants"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

// Language negotiates the response language from Accept-Language.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.ContextKeyLang, i18n.DetectLang(c.GetHeader(constants.HeaderAcceptLanguage)))
		c.Next()
	}
}
