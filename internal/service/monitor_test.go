package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"order-alerts/internal/alerting"
	"order-alerts/internal/config"
	"order-alerts/internal/storage"
)

type fakeStore struct {
	orders    []storage.Order
	err       error
	threshold int
}

func (f *fakeStore) ListLongPendingOrders(ctx context.Context, thresholdDays int) ([]storage.Order, error) {
	f.threshold = thresholdDays
	return f.orders, f.err
}

func (f *fakeStore) ListPendingOrders(ctx context.Context, limit int) ([]storage.Order, error) {
	return f.orders, f.err
}

type fakeNotifier struct {
	err      error
	calls    int
	payloads []alerting.Payload
}

func (f *fakeNotifier) Notify(ctx context.Context, payload alerting.Payload) error {
	f.calls++
	f.payloads = append(f.payloads, payload)
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Monitor: config.MonitorConfig{ThresholdDays: 3},
		Alerting: config.AlertingConfig{Slack: config.SlackConfig{
			Channel:  "#order-alerts",
			Username: "OrderMonitor",
		}},
	}
}

func pendingOrder(id int64, daysPending float64) storage.Order {
	return storage.Order{
		ID:           id,
		OrderNumber:  "ORD-001",
		OrderDate:    time.Now().UTC().Add(-time.Duration(daysPending*24) * time.Hour),
		TotalAmount:  decimal.RequireFromString("49.99"),
		CustomerName: "Ada",
		Status:       "pending",
		DaysPending:  daysPending,
	}
}

func TestRunOnceNoQualifyingOrders(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}

	monitor := New(testConfig(), store, notifier, zerolog.Nop())
	summary, err := monitor.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if summary.Outcome != OutcomeNoAlerts {
		t.Fatalf("outcome = %q, want %q", summary.Outcome, OutcomeNoAlerts)
	}
	if summary.OrdersFound != 0 || summary.AlertsSent != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if notifier.calls != 0 {
		t.Fatalf("dispatcher should not be invoked on empty set, saw %d calls", notifier.calls)
	}
	if store.threshold != 3 {
		t.Fatalf("threshold passed to store = %d, want 3", store.threshold)
	}
}

func TestRunOnceDelivered(t *testing.T) {
	store := &fakeStore{orders: []storage.Order{pendingOrder(42, 3.5)}}
	notifier := &fakeNotifier{}

	monitor := New(testConfig(), store, notifier, zerolog.Nop())
	summary, err := monitor.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if summary.Outcome != OutcomeDelivered || summary.AlertsSent != 1 || summary.OrdersFound != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one dispatch, got %d", notifier.calls)
	}

	payload := notifier.payloads[0]
	if len(payload.Attachments) != 1 {
		t.Fatalf("expected one attachment per alert, got %d", len(payload.Attachments))
	}
	if payload.Attachments[0].Title != "Order #42 - 3 days pending" {
		t.Fatalf("attachment title = %q", payload.Attachments[0].Title)
	}
}

func TestRunOnceRejected(t *testing.T) {
	store := &fakeStore{orders: []storage.Order{pendingOrder(1, 10)}}
	notifier := &fakeNotifier{err: &alerting.DeliveryError{Status: 503}}

	monitor := New(testConfig(), store, notifier, zerolog.Nop())
	summary, err := monitor.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("delivery rejection must not fail the run: %v", err)
	}

	if summary.Outcome != OutcomeRejected {
		t.Fatalf("outcome = %q, want %q", summary.Outcome, OutcomeRejected)
	}
	if summary.RejectStatus != 503 {
		t.Fatalf("reject status = %d, want 503", summary.RejectStatus)
	}
	if summary.AlertsSent != 0 {
		t.Fatalf("rejected batch must not count as sent: %+v", summary)
	}
}

func TestRunOnceSkippedWhenNotConfigured(t *testing.T) {
	store := &fakeStore{orders: []storage.Order{pendingOrder(1, 5)}}
	notifier := &fakeNotifier{err: alerting.ErrNotConfigured}

	monitor := New(testConfig(), store, notifier, zerolog.Nop())
	summary, err := monitor.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("missing webhook must not fail the run: %v", err)
	}

	if summary.Outcome != OutcomeSkipped {
		t.Fatalf("outcome = %q, want %q", summary.Outcome, OutcomeSkipped)
	}
}

func TestRunOnceStoreErrorAborts(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	notifier := &fakeNotifier{}

	monitor := New(testConfig(), store, notifier, zerolog.Nop())
	if _, err := monitor.RunOnce(context.Background()); err == nil {
		t.Fatal("store failure should abort the run")
	}
	if notifier.calls != 0 {
		t.Fatalf("no dispatch expected after store failure, saw %d", notifier.calls)
	}
}

func TestRunOnceExcludesOrdersAtOrUnderThreshold(t *testing.T) {
	store := &fakeStore{orders: []storage.Order{
		pendingOrder(1, 2.9),
		pendingOrder(2, 3.0),
		pendingOrder(3, 10.0),
	}}
	notifier := &fakeNotifier{}

	monitor := New(testConfig(), store, notifier, zerolog.Nop())
	summary, err := monitor.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if summary.OrdersFound != 1 || summary.AlertsSent != 1 {
		t.Fatalf("only the 10-day order should qualify: %+v", summary)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one dispatch, got %d", notifier.calls)
	}
	if got := notifier.payloads[0].Attachments[0].Title; got != "Order #3 - 10 days pending" {
		t.Fatalf("wrong order alerted: %q", got)
	}
}

func TestRunOnceBatchesAllQualifyingOrders(t *testing.T) {
	store := &fakeStore{orders: []storage.Order{
		pendingOrder(10, 10.0),
		pendingOrder(11, 4.5),
		pendingOrder(12, 6.2),
	}}
	notifier := &fakeNotifier{}

	monitor := New(testConfig(), store, notifier, zerolog.Nop())
	summary, err := monitor.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if notifier.calls != 1 {
		t.Fatalf("the batch is one message; got %d dispatches", notifier.calls)
	}
	if got := len(notifier.payloads[0].Attachments); got != 3 {
		t.Fatalf("expected 3 attachments, got %d", got)
	}
	if summary.AlertsSent != 3 {
		t.Fatalf("alerts sent = %d, want 3", summary.AlertsSent)
	}
}
