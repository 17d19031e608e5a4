package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"order-alerts/internal/staleness"
)

// Show prints currently pending orders with their pending age.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show orders")
	}
	defer closeStore()

	orders, err := store.ListPendingOrders(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(os.Stdout, "no pending orders found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Order\tCustomer\tPlaced (UTC)\tAmount\tDays Pending\tStatus")

	for _, order := range orders {
		fmt.Fprintf(
			writer,
			"#%d %s\t%s\t%s\t$%s\t%d\t%s\n",
			order.ID,
			order.OrderNumber,
			order.CustomerName,
			order.OrderDate.UTC().Format(time.RFC3339),
			order.TotalAmount.StringFixed(2),
			staleness.DisplayDays(order.DaysPending),
			order.Status,
		)
	}

	writer.Flush()
	return nil
}
