package app

import (
	"context"
	"errors"

	"order-alerts/internal/service"
)

// Monitor executes one monitoring run: query, format, dispatch, summarise.
// Only a store failure returns an error; delivery problems end the run
// normally with their outcome in the logged summary.
func (a *App) Monitor(ctx context.Context) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot run monitor")
	}
	defer closeStore()

	monitor := service.New(a.Config, store, a.newNotifier(), a.Logger)

	a.Logger.Info().Msg("starting order monitoring run")
	summary, err := monitor.RunOnce(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("monitoring run aborted")
		return err
	}

	a.logSummary(summary)
	return nil
}
