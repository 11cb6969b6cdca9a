package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger logger.Interface
}

func NewHealthHandler(db Pinger, logger logger.Interface) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// @Summary		Health check
// @Tags			system
// @Produce		json
// @Success		200	{object}	utils.APIResponse{data=HealthStatus}
// @Failure		503	{object}	utils.APIResponse{data=HealthStatus}
// @Router			/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Errorw("health check: database ping failed", "error", err)
		utils.SuccessResponse(c, http.StatusServiceUnavailable, i18n.KeyInternalError,
			HealthStatus{Status: "degraded", Database: "down"})
		return
	}

	utils.SuccessResponse(c, http.StatusOK, i18n.KeySuccess, HealthStatus{Status: "ok", Database: "up"})
}
