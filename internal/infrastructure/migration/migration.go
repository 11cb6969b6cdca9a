// Package migration applies the database schema, either through versioned
// goose scripts embedded in the binary or through gorm AutoMigrate.
package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/autopro-kz/autopro/internal/shared/logger"
)

// Strategy applies the schema to a database.
type Strategy interface {
	Migrate(ctx context.Context, db *gorm.DB) error
	GetName() string
}

// Manager runs the strategy selected for a database driver.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose scripts for the driver, or AutoMigrate when
// autoMigrate is set.
func NewManager(driver string, autoMigrate bool, log logger.Interface) (*Manager, error) {
	if autoMigrate {
		return NewManagerWithStrategy(NewGormAutoMigrateStrategy(log), log), nil
	}
	strategy, err := NewGooseStrategy(driver, log)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStrategy(strategy, log), nil
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy.
func (m *Manager) Migrate(ctx context.Context, db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(ctx, db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
