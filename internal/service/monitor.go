package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"order-alerts/internal/alerting"
	"order-alerts/internal/config"
	"order-alerts/internal/staleness"
	"order-alerts/internal/storage"
)

// Outcome is the terminal state of one monitoring run's alert dispatch.
type Outcome string

const (
	// OutcomeNoAlerts means no order crossed the threshold; nothing was sent.
	OutcomeNoAlerts Outcome = "no_alerts"
	// OutcomeDelivered means the endpoint acknowledged the batch.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeRejected means delivery was attempted and failed. The batch is
	// lost; the next run only re-alerts on orders still pending then.
	OutcomeRejected Outcome = "rejected"
	// OutcomeSkipped means no webhook URL is configured; no attempt was made.
	OutcomeSkipped Outcome = "skipped"
)

// Summary reports the result of one monitoring run.
type Summary struct {
	ThresholdDays int
	OrdersFound   int
	AlertsSent    int
	Outcome       Outcome
	RejectStatus  int // HTTP status on rejection, 0 otherwise
}

// Monitor runs the staleness check once per invocation: query, format,
// dispatch. It holds no state across runs.
type Monitor struct {
	store    storage.OrderStore
	notifier alerting.Notifier
	logger   zerolog.Logger

	thresholdDays int
	format        alerting.FormatOptions
}

// New constructs the monitor. The store must be non-nil; the notifier may
// be an unconfigured webhook, in which case dispatch is skipped.
func New(cfg *config.Config, store storage.OrderStore, notifier alerting.Notifier, logger zerolog.Logger) *Monitor {
	return &Monitor{
		store:         store,
		notifier:      notifier,
		logger:        logger.With().Str("component", "monitor").Logger(),
		thresholdDays: cfg.Monitor.ThresholdDays,
		format: alerting.FormatOptions{
			Channel:  cfg.Alerting.Slack.Channel,
			Username: cfg.Alerting.Slack.Username,
		},
	}
}

// RunOnce executes one monitoring pass. Only store failures return an
// error; delivery problems are folded into the summary so a notification
// outage never aborts the run.
func (m *Monitor) RunOnce(ctx context.Context) (Summary, error) {
	summary := Summary{ThresholdDays: m.thresholdDays}

	fetched, err := m.store.ListLongPendingOrders(ctx, m.thresholdDays)
	if err != nil {
		return summary, fmt.Errorf("query long pending orders: %w", err)
	}

	// The query pre-filters for efficiency; the classifier owns the rule.
	orders := make([]storage.Order, 0, len(fetched))
	for _, order := range fetched {
		if staleness.Qualifies(order.DaysPending, m.thresholdDays) {
			orders = append(orders, order)
		}
	}
	summary.OrdersFound = len(orders)

	m.logger.Info().
		Int("found", len(orders)).
		Int("threshold_days", m.thresholdDays).
		Msg("long pending orders queried")

	if len(orders) == 0 {
		summary.Outcome = OutcomeNoAlerts
		m.logger.Info().Msg("no orders requiring follow-up")
		return summary, nil
	}

	alerts := alerting.BuildAlerts(orders)
	payload := alerting.BuildPayload(alerts, m.format, time.Now().UTC())

	switch err := m.notifier.Notify(ctx, payload); {
	case err == nil:
		summary.Outcome = OutcomeDelivered
		summary.AlertsSent = len(alerts)
		m.logger.Info().Int("alerts", len(alerts)).Msg("order alerts sent")
	case errors.Is(err, alerting.ErrNotConfigured):
		summary.Outcome = OutcomeSkipped
		m.logger.Warn().Int("alerts", len(alerts)).Msg("webhook not configured; alerts skipped")
	default:
		summary.Outcome = OutcomeRejected
		var deliveryErr *alerting.DeliveryError
		if errors.As(err, &deliveryErr) {
			summary.RejectStatus = deliveryErr.Status
		}
		m.logger.Error().Err(err).Int("alerts", len(alerts)).Msg("alerts not confirmed delivered")
	}

	return summary, nil
}
