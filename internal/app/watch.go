package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"order-alerts/internal/scheduler"
	"order-alerts/internal/service"
)

// Watch runs the monitoring pass on an aligned interval until interrupted.
// Each tick is an independent run; a per-tick advisory lock keeps
// concurrent replicas from double-alerting on the same orders.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot watch")
	}
	defer closeStore()

	monitor := service.New(a.Config, store, a.newNotifier(), a.Logger)

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToInterval,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	lockKey := a.Config.Scheduler.AdvisoryLockKey

	a.Logger.Info().Dur("interval", a.Config.Scheduler.Interval).Msg("starting watch mode")
	err = sched.Run(ctx, func(ctx context.Context, tick time.Time) error {
		if lockKey != 0 {
			unlock, acquired, lockErr := store.TryAdvisoryLock(ctx, lockKey)
			if lockErr != nil {
				return lockErr
			}
			if !acquired {
				a.Logger.Debug().Time("tick", tick).Msg("skip tick; advisory lock held elsewhere")
				return nil
			}
			defer unlock()
		}

		summary, runErr := monitor.RunOnce(ctx)
		if runErr != nil {
			return runErr
		}
		a.logSummary(summary)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.Logger.Info().Msg("watch mode stopped")
	return nil
}
