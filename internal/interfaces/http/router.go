package http

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/autopro-kz/autopro/internal/infrastructure/config"
	"github.com/autopro-kz/autopro/internal/infrastructure/permission"
	"github.com/autopro-kz/autopro/internal/infrastructure/ratelimit"
	"github.com/autopro-kz/autopro/internal/infrastructure/scheduler"
	"github.com/autopro-kz/autopro/internal/interfaces/http/middleware"
	"github.com/autopro-kz/autopro/internal/shared/logger"

	_ "github.com/autopro-kz/autopro/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter builds the container and returns a router ready for SetupRoutes.
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.log, r.httpMetrics))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.Language())

	r.engine.GET("/health", r.healthHandler.Check)
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.metricsRegistry, promhttp.HandlerOpts{})))

	if r.cfg.Server.Mode == gin.DebugMode {
		r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.engine.Group(r.cfg.Server.APIPrefix)
	r.setupAuthRoutes(api)
	r.setupSubscriptionRoutes(api)
	r.setupCarRoutes(api)
	r.setupAdminRoutes(api)
}

func (r *Router) setupAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
		auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
	}
}

func (r *Router) setupSubscriptionRoutes(api *gin.RouterGroup) {
	requireAuth := r.authMiddleware.RequireAuth()
	perm := r.permissionMiddleware

	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.GET("/plans", r.subscriptionHandler.ListPlans)

		subscriptions.GET("/me", requireAuth,
			perm.RequirePermission(permission.ResourceSubscription, permission.ActionRead),
			r.subscriptionHandler.GetMine)
		subscriptions.GET("/entitlement", requireAuth,
			perm.RequirePermission(permission.ResourceSubscription, permission.ActionRead),
			r.subscriptionHandler.Entitlement)
		subscriptions.POST("/buy", requireAuth,
			perm.RequirePermission(permission.ResourceSubscription, permission.ActionBuy),
			r.rateLimiter.Limit("buy", ratelimit.Limit{RequestsPerMinute: r.cfg.RateLimit.BuyPerMinute}),
			r.subscriptionHandler.Buy)

		subscriptions.POST("/payments/:provider/callback",
			r.rateLimiter.Limit("callback", ratelimit.Limit{RequestsPerMinute: r.cfg.RateLimit.CallbackPerMinute}),
			r.paymentHandler.Callback)
	}
}

func (r *Router) setupCarRoutes(api *gin.RouterGroup) {
	perm := r.permissionMiddleware

	requireAuth := r.authMiddleware.RequireAuth()

	cars := api.Group("/cars")
	{
		cars.GET("", r.carHandler.List)
		cars.GET("/mine", requireAuth, perm.RequirePermission(permission.ResourceListing, permission.ActionRead), r.carHandler.ListMine)
		cars.POST("", requireAuth, perm.RequirePermission(permission.ResourceListing, permission.ActionWrite), r.carHandler.Create)
		cars.DELETE("/:id", requireAuth, perm.RequirePermission(permission.ResourceListing, permission.ActionWrite), r.carHandler.Delete)
	}
}

func (r *Router) setupAdminRoutes(api *gin.RouterGroup) {
	perm := r.permissionMiddleware

	adminGroup := api.Group("/admin")
	adminGroup.Use(r.authMiddleware.RequireAuth(), r.authMiddleware.RequireAdmin())

	plans := adminGroup.Group("/plans")
	{
		plans.GET("", perm.RequirePermission(permission.ResourcePlan, permission.ActionRead), r.adminPlanHandler.List)
		plans.GET("/:id", perm.RequirePermission(permission.ResourcePlan, permission.ActionRead), r.adminPlanHandler.Get)
		plans.POST("", perm.RequirePermission(permission.ResourcePlan, permission.ActionWrite), r.adminPlanHandler.Upsert)
		plans.PATCH("/:id", perm.RequirePermission(permission.ResourcePlan, permission.ActionWrite), r.adminPlanHandler.Update)
	}

	cars := adminGroup.Group("/cars")
	{
		cars.GET("", perm.RequirePermission(permission.ResourceListing, permission.ActionModerate), r.adminCarHandler.List)
		cars.POST("/:id/toggle-active", perm.RequirePermission(permission.ResourceListing, permission.ActionModerate), r.adminCarHandler.ToggleActive)
	}

	accounts := adminGroup.Group("/payment-accounts")
	{
		accounts.GET("", perm.RequirePermission(permission.ResourcePaymentAccount, permission.ActionRead), r.adminAccountHandler.List)
		accounts.POST("", perm.RequirePermission(permission.ResourcePaymentAccount, permission.ActionWrite), r.adminAccountHandler.Create)
		accounts.PATCH("/:id", perm.RequirePermission(permission.ResourcePaymentAccount, permission.ActionWrite), r.adminAccountHandler.Update)
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// RegisterJobs adds the periodic maintenance jobs to the scheduler.
func (r *Router) RegisterJobs(m *scheduler.SchedulerManager) error {
	return m.RegisterExpirySweep(r.expireSubscriptionsUC, r.cfg.Scheduler.ExpirySweepInterval, r.paymentMetrics)
}

// Shutdown releases the broker and cache connections.
func (r *Router) Shutdown() error {
	var errs []error

	if r.kafkaPublisher != nil {
		if err := r.kafkaPublisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		r.log.Errorw("failed to release connections on shutdown", "error", err)
		return err
	}
	return nil
}
