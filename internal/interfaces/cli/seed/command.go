package seed

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	subUsecases "github.com/autopro-kz/autopro/internal/application/subscription/usecases"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/infrastructure/cache"
	"github.com/autopro-kz/autopro/internal/infrastructure/config"
	"github.com/autopro-kz/autopro/internal/infrastructure/database"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/seeds"
	"github.com/autopro-kz/autopro/internal/infrastructure/repository"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/db"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

var plansFile string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
	}

	plansCmd := &cobra.Command{
		Use:   "plans",
		Short: "Upsert the subscription plans",
		Long:  `Create or update the LITE and PREMIUM plans by code. A YAML file with the same layout may replace the built-in list.`,
		RunE:  runPlans,
	}
	plansCmd.Flags().StringVarP(&plansFile, "file", "f", "", "YAML file with a plans list (default: built-in plans)")

	cmd.AddCommand(plansCmd)
	return cmd
}

func runPlans(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	plans, err := loadPlans()
	if err != nil {
		return err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	var planRepo subscription.PlanRepository = repository.NewPlanRepository(database.Get(), log)
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		planRepo = cache.NewCachedPlanRepository(planRepo, client, log)
	}

	upsertUC := subUsecases.NewUpsertPlanUseCase(planRepo, db.NewTransactionManager(database.Get()), biztime.SystemClock(), log)

	created, err := seeds.SeedPlans(cmd.Context(), upsertUC, plans, log)
	if err != nil {
		return fmt.Errorf("failed to seed plans: %w", err)
	}

	fmt.Printf("Plans seeded: %d created, %d updated\n", created, len(plans)-created)
	return nil
}

func loadPlans() ([]seeds.PlanSeed, error) {
	if plansFile == "" {
		return seeds.DefaultPlans()
	}
	data, err := os.ReadFile(plansFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", plansFile, err)
	}
	return seeds.ParsePlans(data)
}
