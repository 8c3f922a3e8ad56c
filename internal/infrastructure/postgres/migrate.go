package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/internal/config"
)

// RunMigrations brings the kv_store schema up to date when migrations are enabled.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	m, err := newMigrator(db, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	before, _, _ := m.Version()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	after, dirty, _ := m.Version()
	logger.Info("database schema ready",
		zap.Uint("from_version", before),
		zap.Uint("version", after),
		zap.Bool("dirty", dirty))
	return nil
}

func newMigrator(db *sql.DB, cfg *config.Config) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, err
	}
	source := "file://" + filepath.ToSlash(cfg.Migrations.Path)
	return migrate.NewWithDatabaseInstance(source, cfg.Database.Name, driver)
}
