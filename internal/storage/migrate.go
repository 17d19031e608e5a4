package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"order-alerts/internal/config"
)

// RunMigrations applies pending schema migrations. Provisioning is a
// separate step from monitoring; the monitor itself never touches schema.
func RunMigrations(cfg config.DatabaseConfig) error {
	if cfg.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if cfg.MigrationsPath == "" {
		return fmt.Errorf("database.migrations_path is required")
	}

	m, err := migrate.New("file://"+cfg.MigrationsPath, migrateDSN(cfg.DSN))
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// migrateDSN maps a postgres connection URL onto the scheme golang-migrate
// selects its pgx/v5 driver by.
func migrateDSN(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}
