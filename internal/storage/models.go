package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents one customer purchase awaiting fulfilment, as read from
// the order-management schema. This service never mutates orders.
type Order struct {
	ID              int64
	OrderNumber     string
	OrderDate       time.Time
	TotalAmount     decimal.Decimal
	CustomerName    string
	Phone           *string
	Email           *string
	ShippingAddress *string
	ShippingCity    *string
	ShippingState   *string
	ShippingZip     *string
	Status          string

	// DaysPending is derived by the query against the database clock and is
	// only meaningful at read time.
	DaysPending float64
}
