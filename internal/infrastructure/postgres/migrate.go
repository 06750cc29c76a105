package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/assets"
	"github.com/mo-tomi/nowtask8/internal/config"
)

// RunMigrations executes DB migrations when enabled in configuration. A
// missing migrations directory falls back to the embedded copy.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, source, err := newMigrator(cfg, driver)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	logger.Info("database migrations applied", zap.String("source", source))
	return nil
}

func newMigrator(cfg *config.Config, driver database.Driver) (*migrate.Migrate, string, error) {
	if path := cfg.Migrations.Path; path != "" {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(path))
			m, err := migrate.NewWithDatabaseInstance(sourceURL, cfg.Database.Name, driver)
			return m, sourceURL, err
		}
	}

	src, err := iofs.New(assets.Migrations, "migrations")
	if err != nil {
		return nil, "", err
	}
	m, err := migrate.NewWithInstance("iofs", src, cfg.Database.Name, driver)
	return m, "embedded", err
}
