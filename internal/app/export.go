package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"order-alerts/internal/staleness"
	"order-alerts/internal/storage"
)

// Export writes pending orders as CSV and/or a pending-age PNG chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxRows = a.Config.ResolveMaxRows(opts.MaxRows)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	defer closeStore()

	orders, err := store.ListPendingOrders(ctx, opts.MaxRows)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		a.Logger.Info().Msg("no pending orders to export")
		return nil
	}

	a.Logger.Info().Int("orders", len(orders)).Msg("exporting pending orders")

	if opts.CSVPath != "" {
		if err := writeOrdersCSV(opts.CSVPath, orders); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writePendingAgePNG(opts.PNGPath, orders); err != nil {
			return err
		}
	}

	return nil
}

func writeOrdersCSV(path string, orders []storage.Order) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"order_id", "order_number", "order_date", "total_amount", "customer_name", "status", "days_pending"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, order := range orders {
		record := []string{
			strconv.FormatInt(order.ID, 10),
			order.OrderNumber,
			order.OrderDate.UTC().Format(time.RFC3339),
			order.TotalAmount.StringFixed(2),
			order.CustomerName,
			order.Status,
			strconv.FormatFloat(order.DaysPending, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writePendingAgePNG(path string, orders []storage.Order) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	bars := make([]chart.Value, 0, len(orders))
	for _, order := range orders {
		bars = append(bars, chart.Value{
			Value: order.DaysPending,
			Label: fmt.Sprintf("#%d (%dd)", order.ID, staleness.DisplayDays(order.DaysPending)),
		})
	}

	graph := chart.BarChart{
		Title:    "Pending order age (days)",
		Width:    1280,
		Height:   720,
		BarWidth: 40,
		Bars:     bars,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
