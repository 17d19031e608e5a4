package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	orderColumns = `
        order_id,
        order_number,
        order_date,
        total_amount,
        customer_name,
        phone,
        email,
        shipping_address,
        shipping_city,
        shipping_state,
        shipping_zip,
        status,
        (EXTRACT(EPOCH FROM (now() - order_date)) / 86400.0)::float8 AS days_pending`

	// days_pending is computed against the database clock so results do not
	// depend on the calling process's clock. The age filter is strict:
	// orders pending for exactly the threshold do not qualify.
	listLongPendingOrdersSQL = `SELECT` + orderColumns + `
    FROM orders
    WHERE status NOT IN ('shipped', 'delivered', 'cancelled')
      AND order_date < now() - make_interval(days => $1)
    ORDER BY order_date;`

	listPendingOrdersSQL = `SELECT` + orderColumns + `
    FROM orders
    WHERE status NOT IN ('shipped', 'delivered', 'cancelled')
    ORDER BY order_date
    LIMIT $1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// OrderStore defines read-only operations over persisted orders.
type OrderStore interface {
	ListLongPendingOrders(ctx context.Context, thresholdDays int) ([]Order, error)
	ListPendingOrders(ctx context.Context, limit int) ([]Order, error)
}

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store provides read access to the orders schema.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// ListLongPendingOrders returns orders awaiting fulfilment whose age
// strictly exceeds thresholdDays, oldest first.
func (s *Store) ListLongPendingOrders(ctx context.Context, thresholdDays int) ([]Order, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}
	if thresholdDays <= 0 {
		return nil, fmt.Errorf("threshold days must be positive, got %d", thresholdDays)
	}

	rows, queryErr := pool.Query(ctx, listLongPendingOrdersSQL, thresholdDays)
	if queryErr != nil {
		return nil, fmt.Errorf("list long pending orders: %w", queryErr)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListPendingOrders returns all orders awaiting fulfilment regardless of
// age, oldest first, capped at limit.
func (s *Store) ListPendingOrders(ctx context.Context, limit int) ([]Order, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listPendingOrdersSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list pending orders: %w", queryErr)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := conn.Exec(ctxUnlock, advisoryUnlockSQL, key); err != nil {
			// unlock best effort; log omitted in storage package
		}
		conn.Release()
	}
	return unlock, true, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	orders := make([]Order, 0)
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, order)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return orders, nil
}

func scanOrder(rows pgx.Rows) (Order, error) {
	var (
		order     Order
		amountStr string
	)

	if err := rows.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.OrderDate,
		&amountStr,
		&order.CustomerName,
		&order.Phone,
		&order.Email,
		&order.ShippingAddress,
		&order.ShippingCity,
		&order.ShippingState,
		&order.ShippingZip,
		&order.Status,
		&order.DaysPending,
	); err != nil {
		return Order{}, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return Order{}, fmt.Errorf("parse total amount: %w", err)
	}
	order.TotalAmount = amount

	return order, nil
}

var _ OrderStore = (*Store)(nil)
var _ AdvisoryLocker = (*Store)(nil)
