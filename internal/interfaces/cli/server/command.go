package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/autopro-kz/autopro/internal/infrastructure/config"
	"github.com/autopro-kz/autopro/internal/infrastructure/database"
	"github.com/autopro-kz/autopro/internal/infrastructure/migration"
	"github.com/autopro-kz/autopro/internal/infrastructure/scheduler"
	httpRouter "github.com/autopro-kz/autopro/internal/interfaces/http"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const shutdownTimeout = 30 * time.Second

var (
	env                string
	autoMigrate        bool
	runMigrations      bool
	skipMigrationCheck bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the AutoPro API server and, when enabled, the subscription expiry sweep.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Create tables with gorm AutoMigrate on startup (sqlite and local use)")
	cmd.Flags().BoolVar(&runMigrations, "migrate", false, "Apply pending goose migrations on startup")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("AUTOPRO_ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(mapEnvToGinMode(env))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	log.Infow("starting server",
		"environment", env,
		"mode", cfg.Server.Mode,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := handleMigrations(ctx, cfg, log); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	router, err := httpRouter.NewRouter(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	router.SetupRoutes()
	defer router.Shutdown()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if cfg.Scheduler.ExpirySweepEnabled {
		schedulerManager, err := scheduler.NewSchedulerManager(log)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := router.RegisterJobs(schedulerManager); err != nil {
			return fmt.Errorf("failed to register scheduler jobs: %w", err)
		}
		g.Go(func() error {
			return schedulerManager.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Errorw("server stopped with error", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(ctx context.Context, cfg *config.Config, log logger.Interface) error {
	db := database.Get()

	if autoMigrate || runMigrations {
		if autoMigrate && cfg.Server.Mode == gin.ReleaseMode {
			log.Warnw("auto-migration is enabled in release mode, this is not recommended")
		}
		manager, err := migration.NewManager(cfg.Database.Driver, autoMigrate, log)
		if err != nil {
			return err
		}
		return manager.Migrate(ctx, db)
	}

	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	strategy, err := migration.NewGooseStrategy(cfg.Database.Driver, log)
	if err != nil {
		return err
	}
	version, err := strategy.GetVersion(ctx, db)
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", version)
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
