package alerting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"order-alerts/internal/staleness"
	"order-alerts/internal/storage"
)

// PhoneUnavailable substitutes a missing customer phone number.
const PhoneUnavailable = "N/A"

const (
	alertTitle      = "🚨 Pending Orders Requiring Follow-up"
	attachmentColor = "warning"
	payloadFooter   = "E-commerce Order Monitor"

	orderDateLayout = "2006-01-02"
)

// Alert is the presentation view of one long-pending order.
type Alert struct {
	CustomerName string
	Phone        string
	OrderID      int64
	OrderDate    time.Time
	TotalAmount  decimal.Decimal
	DaysPending  int
}

// Payload is the Slack incoming-webhook document batching all alerts of a
// single run into one message.
type Payload struct {
	Text        string       `json:"text"`
	Channel     string       `json:"channel"`
	Username    string       `json:"username"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment renders one alert within the payload.
type Attachment struct {
	Color  string  `json:"color"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
	Footer string  `json:"footer"`
	TS     int64   `json:"ts"`
}

// Field is a labelled attachment value.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// FormatOptions identify the target channel and sender.
type FormatOptions struct {
	Channel  string
	Username string
}

// BuildAlerts maps qualifying orders into alerts, preserving input order.
// The displayed pending age is truncated, never rounded up.
func BuildAlerts(orders []storage.Order) []Alert {
	alerts := make([]Alert, 0, len(orders))
	for _, order := range orders {
		phone := PhoneUnavailable
		if order.Phone != nil && *order.Phone != "" {
			phone = *order.Phone
		}
		alerts = append(alerts, Alert{
			CustomerName: order.CustomerName,
			Phone:        phone,
			OrderID:      order.ID,
			OrderDate:    order.OrderDate,
			TotalAmount:  order.TotalAmount,
			DaysPending:  staleness.DisplayDays(order.DaysPending),
		})
	}
	return alerts
}

// BuildPayload batches alerts into a single webhook document. Alerts must
// be non-empty; callers short-circuit before dispatch when there is
// nothing to send. The attachment timestamp is the invocation time, not
// the order time.
func BuildPayload(alerts []Alert, opts FormatOptions, now time.Time) Payload {
	attachments := make([]Attachment, 0, len(alerts))
	for _, alert := range alerts {
		attachments = append(attachments, Attachment{
			Color: attachmentColor,
			Title: fmt.Sprintf("Order #%d - %d days pending", alert.OrderID, alert.DaysPending),
			Fields: []Field{
				{Title: "Customer", Value: alert.CustomerName, Short: true},
				{Title: "Phone", Value: alert.Phone, Short: true},
				{Title: "Order Date", Value: alert.OrderDate.Format(orderDateLayout), Short: true},
				{Title: "Total Amount", Value: "$" + alert.TotalAmount.StringFixed(2), Short: true},
				{Title: "Days Pending", Value: fmt.Sprintf("%d days", alert.DaysPending), Short: true},
			},
			Footer: payloadFooter,
			TS:     now.Unix(),
		})
	}

	return Payload{
		Text:        alertTitle,
		Channel:     opts.Channel,
		Username:    opts.Username,
		Attachments: attachments,
	}
}
