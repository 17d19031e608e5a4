package app

import (
	"context"

	"github.com/rs/zerolog"

	"order-alerts/internal/alerting"
	"order-alerts/internal/config"
	"order-alerts/internal/service"
	"order-alerts/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// newNotifier builds a dispatcher for this invocation. An empty webhook
// URL yields a notifier that reports NotConfigured instead of sending.
func (a *App) newNotifier() alerting.Notifier {
	slack := a.Config.Alerting.Slack
	return alerting.NewWebhookNotifier(slack.WebhookURL, slack.RequestTimeout, a.Logger)
}

func (a *App) logSummary(summary service.Summary) {
	event := a.Logger.Info()
	if summary.Outcome == service.OutcomeRejected {
		event = a.Logger.Error().Int("reject_status", summary.RejectStatus)
	}
	event.
		Int("threshold_days", summary.ThresholdDays).
		Int("orders_found", summary.OrdersFound).
		Int("alerts_sent", summary.AlertsSent).
		Str("outcome", string(summary.Outcome)).
		Msg("monitoring run complete")
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// ExportOptions hold parameters for exporting pending orders.
type ExportOptions struct {
	PNGPath string
	CSVPath string
	MaxRows int
}

// SimulateOptions describe the synthetic order pushed through the
// formatter and dispatcher.
type SimulateOptions struct {
	OrderID      int64
	CustomerName string
	TotalAmount  float64
	DaysPending  float64
}
