package migration

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/autopro-kz/autopro/internal/shared/logger"
)

//go:embed scripts
var scripts embed.FS

// MigrationStatus is one row of `migrate status`.
type MigrationStatus struct {
	Version   int64
	Source    string
	Applied   bool
	AppliedAt time.Time
}

// GooseStrategy applies the versioned SQL scripts for one dialect.
type GooseStrategy struct {
	dialect goose.Dialect
	dir     string
	logger  logger.Interface
}

// NewGooseStrategy maps a configured database driver to its script set.
func NewGooseStrategy(driver string, log logger.Interface) (*GooseStrategy, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch driver {
	case "postgres":
		dialect, dir = goose.DialectPostgres, "scripts/postgres"
	case "mysql":
		dialect, dir = goose.DialectMySQL, "scripts/mysql"
	case "sqlite":
		dialect, dir = goose.DialectSQLite3, "scripts/sqlite3"
	default:
		return nil, fmt.Errorf("no migration scripts for driver %q", driver)
	}
	return &GooseStrategy{
		dialect: dialect,
		dir:     dir,
		logger:  log.With("component", "migration.goose"),
	}, nil
}

func (s *GooseStrategy) provider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	fsys, err := fs.Sub(scripts, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration scripts: %w", err)
	}
	provider, err := goose.NewProvider(s.dialect, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return provider, nil
}

func (s *GooseStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	provider, err := s.provider(db)
	if err != nil {
		return err
	}

	currentVersion, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	s.logger.Infow("current migration status", "version", currentVersion)

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		s.logger.Infow("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}

	finalVersion, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)
	return nil
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}

// MigrateDown rolls back the given number of applied migrations.
func (s *GooseStrategy) MigrateDown(ctx context.Context, db *gorm.DB, steps int) error {
	provider, err := s.provider(db)
	if err != nil {
		return err
	}

	s.logger.Infow("starting down migration", "steps", steps)
	for i := 0; i < steps; i++ {
		r, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("failed to run down migration: %w", err)
		}
		s.logger.Infow("migration rolled back", "version", r.Source.Version)
	}
	return nil
}

func (s *GooseStrategy) GetVersion(ctx context.Context, db *gorm.DB) (int64, error) {
	provider, err := s.provider(db)
	if err != nil {
		return 0, err
	}
	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

func (s *GooseStrategy) Status(ctx context.Context, db *gorm.DB) ([]MigrationStatus, error) {
	provider, err := s.provider(db)
	if err != nil {
		return nil, err
	}
	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, MigrationStatus{
			Version:   st.Source.Version,
			Source:    st.Source.Path,
			Applied:   st.State == goose.StateApplied,
			AppliedAt: st.AppliedAt,
		})
	}
	return out, nil
}
