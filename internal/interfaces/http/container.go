package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	subUsecases "github.com/autopro-kz/autopro/internal/application/subscription/usecases"
	"github.com/autopro-kz/autopro/internal/infrastructure/config"
	"github.com/autopro-kz/autopro/internal/infrastructure/metrics"
	"github.com/autopro-kz/autopro/internal/infrastructure/pubsub"
	"github.com/autopro-kz/autopro/internal/infrastructure/repository"
	"github.com/autopro-kz/autopro/internal/interfaces/http/handlers"
	"github.com/autopro-kz/autopro/internal/interfaces/http/handlers/admin"
	"github.com/autopro-kz/autopro/internal/interfaces/http/middleware"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

// repositories groups the gorm backed repositories.
type repositories struct {
	userRepo         *repository.UserRepository
	carRepo          *repository.CarRepository
	planRepo         *repository.PlanRepository
	subscriptionRepo *repository.SubscriptionRepository
	transactionRepo  *repository.PaymentTransactionRepository
	accountRepo      *repository.PaymentAccountRepository
}

// Container holds every dependency built for the HTTP server.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	clock  biztime.Clock

	redis          *redis.Client
	repos          *repositories
	kafkaPublisher *pubsub.KafkaPublisher

	metricsRegistry *prometheus.Registry
	httpMetrics     *metrics.HTTPMetrics
	paymentMetrics  *metrics.PaymentMetrics

	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	expireSubscriptionsUC *subUsecases.ExpireSubscriptionsUseCase

	authHandler         *handlers.AuthHandler
	subscriptionHandler *handlers.SubscriptionHandler
	paymentHandler      *handlers.PaymentHandler
	carHandler          *handlers.CarHandler
	healthHandler       *handlers.HealthHandler
	adminPlanHandler    *admin.PlanHandler
	adminAccountHandler *admin.PaymentAccountHandler
	adminCarHandler     *admin.CarHandler
}

// NewContainer wires the application. It fails only when a component that
// every request depends on cannot be built.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		clock:  biztime.SystemClock(),
	}

	c.initInfrastructure()

	if err := c.initAccessControl(); err != nil {
		return nil, err
	}

	c.initUseCasesAndHandlers()

	return c, nil
}
