package app

import (
	"order-alerts/internal/storage"
)

// Migrate applies schema migrations. Run this before the first monitoring
// run; the monitor treats an existing schema as a precondition.
func (a *App) Migrate() error {
	if err := storage.RunMigrations(a.Config.Database); err != nil {
		return err
	}
	a.Logger.Info().Str("path", a.Config.Database.MigrationsPath).Msg("migrations applied")
	return nil
}
