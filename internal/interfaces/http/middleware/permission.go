package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autopro-kz/autopro/internal/shared/constants"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

type policyEnforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

type PermissionMiddleware struct {
	enforcer policyEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer policyEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// RequirePermission checks the role stored by RequireAuth against the
// resource/action policy.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constants.ContextKeyUserRole)
		if role == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, i18n.KeyUnauthorized)
			c.Abort()
			return
		}

		allowed, err := m.enforcer.Enforce(role, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed",
				"role", role,
				"resource", resource,
				"action", action,
				"error", err)
			utils.ErrorResponse(c, http.StatusInternalServerError, i18n.KeyInternalError)
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied",
				"user_id", c.GetUint(constants.ContextKeyUserID),
				"role", role,
				"resource", resource,
				"action", action)
			utils.ErrorResponse(c, http.StatusForbidden, i18n.KeyForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
