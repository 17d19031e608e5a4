package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"order-alerts/internal/alerting"
	"order-alerts/internal/staleness"
	"order-alerts/internal/storage"
)

// SimulateAlert pushes a synthetic order through the formatter and
// dispatcher to smoke-test the webhook without touching the database.
func (a *App) SimulateAlert(ctx context.Context, opts SimulateOptions) error {
	now := time.Now().UTC()
	age := time.Duration(opts.DaysPending * float64(24*time.Hour))
	orderDate := now.Add(-age)

	order := storage.Order{
		ID:           opts.OrderID,
		OrderNumber:  fmt.Sprintf("SIM-%d", opts.OrderID),
		OrderDate:    orderDate,
		TotalAmount:  decimal.NewFromFloat(opts.TotalAmount),
		CustomerName: opts.CustomerName,
		Status:       "pending",
		DaysPending:  staleness.DaysPending(orderDate, now),
	}

	alerts := alerting.BuildAlerts([]storage.Order{order})
	payload := alerting.BuildPayload(alerts, alerting.FormatOptions{
		Channel:  a.Config.Alerting.Slack.Channel,
		Username: a.Config.Alerting.Slack.Username,
	}, now)

	err := a.newNotifier().Notify(ctx, payload)
	if errors.Is(err, alerting.ErrNotConfigured) {
		return errors.New("alerting.slack.webhook_url not configured")
	}
	if err != nil {
		return err
	}

	a.Logger.Info().Int64("order_id", opts.OrderID).Msg("simulated alert delivered")
	return nil
}
