package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"order-alerts/internal/app"
)

var (
	simulateOrderID  int64
	simulateCustomer string
	simulateAmount   float64
	simulateDays     float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "Send a synthetic order alert to smoke-test the webhook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateDays <= 0 {
			return errors.New("--days must be greater than zero")
		}
		if simulateAmount < 0 {
			return errors.New("--amount cannot be negative")
		}

		opts := app.SimulateOptions{
			OrderID:      simulateOrderID,
			CustomerName: simulateCustomer,
			TotalAmount:  simulateAmount,
			DaysPending:  simulateDays,
		}

		return getApp().SimulateAlert(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().Int64Var(&simulateOrderID, "order-id", 999, "Synthetic order identifier")
	simulateCmd.Flags().StringVar(&simulateCustomer, "customer", "Test Customer", "Synthetic customer name")
	simulateCmd.Flags().Float64Var(&simulateAmount, "amount", 49.99, "Synthetic order amount")
	simulateCmd.Flags().Float64Var(&simulateDays, "days", 4.5, "Synthetic pending age in days")
}
