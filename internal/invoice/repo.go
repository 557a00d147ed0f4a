package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

var ErrNotFound = apperr.NotFound("invoice not found")

// Counters are the dashboard figures read straight from the database.
type Counters struct {
	TodaySales           decimal.Decimal
	TodayOrders          int
	OpenOrders           int
	LowStockItems        int
	UpcomingReservations int
}

// StatusTotal is one row of the billing aggregate.
type StatusTotal struct {
	Status string
	Count  int
	Amount decimal.Decimal
}

type Repository interface {
	// List returns one page of orders created in [q.From, q.To) whose
	// invoice status, as of now with the given terms, matches q.Status.
	List(ctx context.Context, q Query, now time.Time, terms time.Duration) ([]Source, error)
	Source(ctx context.Context, orderID string) (*Source, error)
	// Totals sums order totals per invoice status over [from, to).
	Totals(ctx context.Context, from, to, now time.Time, terms time.Duration) ([]StatusTotal, error)
	// Counters reads today's figures. dayStart/dayEnd bound "today",
	// until bounds the upcoming reservations window starting at now.
	Counters(ctx context.Context, dayStart, dayEnd, now, until time.Time) (*Counters, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const sourceSelect = `
	SELECT o.id, o.number, o.status, o.customer_id::text, COALESCE(c.name, ''),
	       o.subtotal::text, o.discount::text, o.tax::text, o.total::text, o.created_at
	FROM orders o
	LEFT JOIN customers c ON c.id = o.customer_id`

func scanSource(row pgx.Row) (*Source, error) {
	var s Source
	if err := row.Scan(&s.OrderID, &s.OrderNumber, &s.OrderStatus, &s.CustomerID, &s.CustomerName,
		&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// invoiceStatus mirrors DeriveStatus. $1 is now, $2 the terms in seconds.
const invoiceStatus = `
	CASE WHEN o.status = 'cancelled' THEN 'void'
	     WHEN o.status = 'completed' THEN 'paid'
	     WHEN o.created_at + make_interval(secs => $2) < $1 THEN 'overdue'
	     ELSE 'pending'
	END`

func (r *PGRepo) List(ctx context.Context, q Query, now time.Time, terms time.Duration) ([]Source, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, sourceSelect+`
		WHERE ($3::timestamptz IS NULL OR o.created_at >= $3)
		  AND ($4::timestamptz IS NULL OR o.created_at < $4)
		  AND ($5::text = '' OR `+invoiceStatus+` = $5)
		ORDER BY o.created_at DESC, o.id
		LIMIT NULLIF($6::int, 0) OFFSET $7
	`, now, terms.Seconds(), nullTime(q.From), nullTime(q.To), q.Status, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("invoice: list: %w", err)
	}
	defer rows.Close()

	out := []Source{}
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *PGRepo) Totals(ctx context.Context, from, to, now time.Time, terms time.Duration) ([]StatusTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+invoiceStatus+` AS st, COUNT(*), COALESCE(SUM(o.total), 0)::text
		FROM orders o
		WHERE ($3::timestamptz IS NULL OR o.created_at >= $3)
		  AND ($4::timestamptz IS NULL OR o.created_at < $4)
		GROUP BY st
	`, now, terms.Seconds(), nullTime(from), nullTime(to))
	if err != nil {
		return nil, fmt.Errorf("invoice: totals: %w", err)
	}
	defer rows.Close()

	var out []StatusTotal
	for rows.Next() {
		var t StatusTotal
		if err := rows.Scan(&t.Status, &t.Count, &t.Amount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PGRepo) Source(ctx context.Context, orderID string) (*Source, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s, err := scanSource(r.db.QueryRow(ctx, sourceSelect+` WHERE o.id = $1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invoice: get %s: %w", orderID, err)
	}
	return s, nil
}

func (r *PGRepo) Counters(ctx context.Context, dayStart, dayEnd, now, until time.Time) (*Counters, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Counters
	err := r.db.QueryRow(ctx, `
		SELECT
		  (SELECT COALESCE(SUM(total), 0)::text FROM orders
		     WHERE created_at >= $1 AND created_at < $2 AND status <> 'cancelled'),
		  (SELECT COUNT(*) FROM orders
		     WHERE created_at >= $1 AND created_at < $2 AND status <> 'cancelled'),
		  (SELECT COUNT(*) FROM orders WHERE status NOT IN ('completed', 'cancelled')),
		  (SELECT COUNT(*) FROM inventory WHERE quantity <= reorder_level),
		  (SELECT COUNT(*) FROM reservations
		     WHERE reserved_at >= $3 AND reserved_at < $4
		       AND status IN ('pending', 'confirmed'))
	`, dayStart, dayEnd, now, until).Scan(&c.TodaySales, &c.TodayOrders, &c.OpenOrders, &c.LowStockItems, &c.UpcomingReservations)
	if err != nil {
		return nil, fmt.Errorf("invoice: dashboard counters: %w", err)
	}
	return &c, nil
}
