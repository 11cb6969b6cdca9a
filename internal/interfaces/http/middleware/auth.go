package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	vo "github.com/autopro-kz/autopro/internal/domain/user/valueobjects"
	"github.com/autopro-kz/autopro/internal/infrastructure/adapters"
	"github.com/autopro-kz/autopro/internal/infrastructure/auth"
	"github.com/autopro-kz/autopro/internal/shared/constants"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

type tokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

type roleResolver interface {
	CurrentRole(ctx context.Context, userID uint) (vo.Role, error)
}

type AuthMiddleware struct {
	tokens tokenVerifier
	roles  roleResolver
	logger logger.Interface
}

func NewAuthMiddleware(tokens tokenVerifier, roles roleResolver, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		roles:  roles,
		logger: logger,
	}
}

// RequireAuth accepts "Authorization: Bearer <token>" and stores user_id and
// the stored (not the token's) role on the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := m.authenticate(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, i18n.KeyUnauthorized)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserRole, role.String())
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constants.ContextKeyUserRole)
		if !vo.Role(role).IsAdmin() {
			utils.ErrorResponse(c, http.StatusForbidden, i18n.KeyForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (uint, vo.Role, bool) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return 0, "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		m.logger.Debugw("malformed authorization header")
		return 0, "", false
	}

	claims, err := m.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		m.logger.Debugw("token verification failed", "error", err)
		return 0, "", false
	}

	userID, err := claims.UserID()
	if err != nil {
		return 0, "", false
	}

	role, err := m.roles.CurrentRole(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, adapters.ErrUserInactive) {
			m.logger.Errorw("failed to resolve user role", "user_id", userID, "error", err)
		}
		return 0, "", false
	}

	return userID, role, true
}
