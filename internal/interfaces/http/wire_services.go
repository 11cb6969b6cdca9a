package http

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	entitlementUsecases "github.com/autopro-kz/autopro/internal/application/entitlement/usecases"
	listingUsecases "github.com/autopro-kz/autopro/internal/application/listing/usecases"
	"github.com/autopro-kz/autopro/internal/application/payment/paymentgateway"
	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
	subUsecases "github.com/autopro-kz/autopro/internal/application/subscription/usecases"
	userUsecases "github.com/autopro-kz/autopro/internal/application/user/usecases"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/infrastructure/adapters"
	"github.com/autopro-kz/autopro/internal/infrastructure/auth"
	"github.com/autopro-kz/autopro/internal/infrastructure/cache"
	"github.com/autopro-kz/autopro/internal/infrastructure/config"
	"github.com/autopro-kz/autopro/internal/infrastructure/email"
	"github.com/autopro-kz/autopro/internal/infrastructure/metrics"
	"github.com/autopro-kz/autopro/internal/infrastructure/payment/kassa24"
	"github.com/autopro-kz/autopro/internal/infrastructure/permission"
	"github.com/autopro-kz/autopro/internal/infrastructure/pubsub"
	"github.com/autopro-kz/autopro/internal/infrastructure/ratelimit"
	"github.com/autopro-kz/autopro/internal/infrastructure/repository"
	"github.com/autopro-kz/autopro/internal/infrastructure/telegram"
	"github.com/autopro-kz/autopro/internal/interfaces/http/handlers"
	"github.com/autopro-kz/autopro/internal/interfaces/http/handlers/admin"
	"github.com/autopro-kz/autopro/internal/interfaces/http/middleware"
	"github.com/autopro-kz/autopro/internal/shared/db"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/services/markdown"
)

const redisPingTimeout = 3 * time.Second

func (c *Container) initInfrastructure() {
	c.redis = initRedis(c.cfg, c.log)
	c.repos = newRepositories(c.db, c.log)

	c.metricsRegistry = metrics.NewRegistry()
	c.httpMetrics = metrics.NewHTTPMetrics(c.metricsRegistry)
	c.paymentMetrics = metrics.NewPaymentMetrics(c.metricsRegistry)

	if c.redis != nil && c.cfg.RateLimit.Enabled {
		c.rateLimiter = middleware.NewRateLimiter(ratelimit.NewRedisRateLimiter(c.redis, c.clock), c.log)
	}
}

// initRedis returns nil when Redis is disabled. An unreachable server is only
// logged: every Redis consumer degrades to the database or lets requests pass.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	if !cfg.Redis.Enabled {
		log.Infow("redis disabled, running without cache, rate limits and pub/sub")
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("redis is not reachable, continuing in degraded mode", "addr", cfg.Redis.GetAddr(), "error", err)
		return redisClient
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())

	return redisClient
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:         repository.NewUserRepository(db, log),
		carRepo:          repository.NewCarRepository(db, log),
		planRepo:         repository.NewPlanRepository(db, log),
		subscriptionRepo: repository.NewSubscriptionRepository(db, log),
		transactionRepo:  repository.NewPaymentTransactionRepository(db, log),
		accountRepo:      repository.NewPaymentAccountRepository(db, log),
	}
}

func (c *Container) initAccessControl() error {
	jwtSvc := auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes, c.clock)
	c.authMiddleware = middleware.NewAuthMiddleware(jwtSvc, adapters.NewUserRoleChecker(c.repos.userRepo), c.log)

	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return err
	}
	if err := permission.InitPolicies(enforcer, c.log); err != nil {
		return err
	}
	c.permissionMiddleware = middleware.NewPermissionMiddleware(enforcer, c.log)

	c.initAuth(jwtSvc)
	return nil
}

func (c *Container) initAuth(jwtSvc *auth.JWTService) {
	hasher := auth.NewBcryptPasswordHasher(c.cfg.Auth.Password.BcryptCost)
	userRepo := c.repos.userRepo

	c.authHandler = handlers.NewAuthHandler(
		userUsecases.NewRegisterUseCase(userRepo, hasher, c.clock, c.log),
		userUsecases.NewLoginUseCase(userRepo, hasher, jwtSvc, c.clock, c.log),
		userUsecases.NewGetMeUseCase(userRepo, c.log),
		c.log,
	)
}

// planRepository serves reads from the Redis snapshot when Redis is enabled.
func (c *Container) planRepository() subscription.PlanRepository {
	if c.redis == nil {
		return c.repos.planRepo
	}
	return cache.NewCachedPlanRepository(c.repos.planRepo, c.redis, c.log)
}

func (c *Container) initUseCasesAndHandlers() {
	log := c.log
	clock := c.clock
	repos := c.repos
	txMgr := db.NewTransactionManager(c.db)
	renderer := markdown.NewRenderer()
	planRepo := c.planRepository()

	gateways := paymentgateway.NewRegistry(
		kassa24.NewGateway(c.cfg.Payment.Kassa24.BaseURL, c.cfg.Payment.RequestTimeout, log),
	)

	// Plan catalog
	listPlansUC := subUsecases.NewListPlansUseCase(planRepo, renderer, log)
	getPlanUC := subUsecases.NewGetPlanUseCase(planRepo, renderer, log)
	upsertPlanUC := subUsecases.NewUpsertPlanUseCase(planRepo, txMgr, clock, log)
	updatePlanUC := subUsecases.NewUpdatePlanUseCase(planRepo, clock, log)

	// Subscriptions and payments
	getActiveUC := subUsecases.NewGetActiveSubscriptionUseCase(repos.subscriptionRepo, renderer, clock, log)
	buyUC := subUsecases.NewBuySubscriptionUseCase(
		planRepo, repos.subscriptionRepo, repos.transactionRepo, repos.accountRepo, gateways, txMgr, clock, log,
	)
	buyUC.SetMetrics(c.paymentMetrics)

	callbackUC := paymentUsecases.NewHandleCallbackUseCase(
		repos.transactionRepo, repos.accountRepo, repos.subscriptionRepo, planRepo, gateways, txMgr, clock, log,
	)
	callbackUC.SetMetrics(c.paymentMetrics)
	callbackUC.SetEventPublisher(c.newEventPublisher())

	c.expireSubscriptionsUC = subUsecases.NewExpireSubscriptionsUseCase(repos.subscriptionRepo, clock, log)

	// Listings
	canPublishUC := entitlementUsecases.NewCanPublishListingUseCase(repos.subscriptionRepo, repos.carRepo, clock, log)
	createCarUC := listingUsecases.NewCreateCarUseCase(repos.carRepo, canPublishUC, txMgr, clock, log)

	paymentNotifiers, listingNotifiers := c.newNotifiers()
	if len(paymentNotifiers) > 0 {
		callbackUC.SetAdminNotifier(paymentNotifiers)
	}
	if len(listingNotifiers) > 0 {
		createCarUC.SetNotifier(listingNotifiers)
	}

	c.subscriptionHandler = handlers.NewSubscriptionHandler(listPlansUC, getActiveUC, buyUC, canPublishUC, log)
	c.paymentHandler = handlers.NewPaymentHandler(callbackUC, c.cfg.Payment.SignatureHeader, log)
	listCarsUC := listingUsecases.NewListCarsUseCase(repos.carRepo, log)
	c.carHandler = handlers.NewCarHandler(
		createCarUC,
		listingUsecases.NewListMyCarsUseCase(repos.carRepo, log),
		listingUsecases.NewDeleteCarUseCase(repos.carRepo, clock, log),
		listCarsUC,
		log,
	)

	c.adminPlanHandler = admin.NewPlanHandler(listPlansUC, getPlanUC, upsertPlanUC, updatePlanUC, log)
	c.adminAccountHandler = admin.NewPaymentAccountHandler(
		paymentUsecases.NewPaymentAccountsUseCase(repos.accountRepo, txMgr, clock, log),
		log,
	)

	c.adminCarHandler = admin.NewCarHandler(
		listCarsUC,
		listingUsecases.NewToggleCarActiveUseCase(repos.carRepo, clock, log),
		log,
	)

	c.healthHandler = handlers.NewHealthHandler(sqlPinger{c.db}, log)
}

// newNotifiers collects the admin channels that are configured.
func (c *Container) newNotifiers() (adapters.PaymentNotifiers, adapters.ListingNotifiers) {
	var payments adapters.PaymentNotifiers
	var listings adapters.ListingNotifiers

	if c.cfg.Telegram.IsConfigured() {
		notifier := telegram.NewAdminNotifier(telegram.NewBotService(c.cfg.Telegram), c.cfg.Telegram.AdminChatID, c.log)
		payments = append(payments, notifier)
		listings = append(listings, notifier)
		c.log.Infow("telegram admin notifications enabled")
	}

	if email.IsConfigured(c.cfg.Email) {
		payments = append(payments, email.NewSMTPEmailService(c.cfg.Email, c.log))
		c.log.Infow("email payment receipts enabled", "to", c.cfg.Email.AdminAddress)
	}

	return payments, listings
}

// newEventPublisher fans subscription events out to Kafka and Redis when they
// are enabled.
func (c *Container) newEventPublisher() paymentUsecases.EventPublisher {
	var publishers pubsub.Fanout

	if c.cfg.Kafka.Enabled {
		producer, err := pubsub.NewSyncProducer(c.cfg.Kafka)
		if err != nil {
			c.log.Warnw("kafka producer unavailable, events will not be sent to kafka", "brokers", c.cfg.Kafka.Brokers, "error", err)
		} else {
			c.kafkaPublisher = pubsub.NewKafkaPublisher(producer, c.cfg.Kafka.Topic, c.log)
			publishers = append(publishers, c.kafkaPublisher)
		}
	}

	if c.redis != nil {
		publishers = append(publishers, pubsub.NewRedisPublisher(c.redis, c.log))
	}

	if len(publishers) == 0 {
		return pubsub.NopPublisher{}
	}
	return publishers
}

// sqlPinger resolves the pool on every ping so a reconnect is picked up.
type sqlPinger struct {
	db *gorm.DB
}

func (p sqlPinger) PingContext(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
