package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

// GormAutoMigrateStrategy derives the schema from the persistence models.
// It is meant for sqlite and local development.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{logger: log.With("component", "migration.automigrate")}
}

func (s *GormAutoMigrateStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	all := models.All()
	s.logger.Infow("running gorm auto migrate", "models_count", len(all))
	if err := db.WithContext(ctx).AutoMigrate(all...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
