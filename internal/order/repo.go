package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
	"github.com/MikeMC777/restaurant-pos/internal/customer"
	"github.com/MikeMC777/restaurant-pos/internal/inventory"
	"github.com/MikeMC777/restaurant-pos/internal/retry"
)

var (
	ErrNotFound      = apperr.NotFound("order not found")
	ErrStatusChanged = apperr.Conflict("order status changed concurrently, reload and retry")
)

type Query struct {
	Status     string
	CustomerID string
	EmployeeID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// Usage is the stock consumed per inventory item by a checkout.
type Usage map[string]decimal.Decimal

// IDs returns the inventory ids in ascending order. Rows are always locked
// in this order so concurrent checkouts cannot deadlock each other.
func (u Usage) IDs() []string {
	ids := make([]string, 0, len(u))
	for id := range u {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type Repository interface {
	// Create stores the order with its lines, deducts usage from inventory
	// and awards loyalty points, all in one transaction.
	Create(ctx context.Context, o *Order, items []Item, usage Usage, points int) error
	GetByID(ctx context.Context, id string) (*Order, []Item, error)
	GetItems(ctx context.Context, orderID string) ([]Item, error)
	List(ctx context.Context, q Query) ([]Order, error)
	// UpdateStatus moves the order from -> to; ErrStatusChanged when the
	// stored status is no longer from.
	UpdateStatus(ctx context.Context, id, from, to string) error
	// Cancel sets the order cancelled and returns the stock sold with it.
	Cancel(ctx context.Context, id, from string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderCols = `id, number, customer_id::text, employee_id::text, table_number, order_type, status, payment_method,
	subtotal::text, discount::text, tax::text, total::text, amount_paid::text, change_due::text, notes, created_at, updated_at`

const itemCols = `id, order_id, menu_item_id::text, name, quantity, unit_price::text, line_total::text, notes`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &o.EmployeeID, &o.TableNumber, &o.Type, &o.Status,
		&o.PaymentMethod, &o.Subtotal, &o.Discount, &o.Tax, &o.Total, &o.AmountPaid, &o.Change, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item, usage Usage, points int) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return retry.DoIf(ctx, 3, 20*time.Millisecond, apperr.TxConflict, func(ctx context.Context) error {
		return r.create(ctx, o, items, usage, points)
	})
}

func (r *PGRepo) create(ctx context.Context, o *Order, items []Item, usage Usage, points int) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (id, number, customer_id, employee_id, table_number, order_type, status, payment_method,
		                    subtotal, discount, tax, total, amount_paid, change_due, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,NOW(),NOW())
		RETURNING created_at, updated_at
	`, o.ID, o.Number, o.CustomerID, o.EmployeeID, o.TableNumber, o.Type, o.Status, o.PaymentMethod,
		o.Subtotal.String(), o.Discount.String(), o.Tax.String(), o.Total.String(),
		o.AmountPaid.String(), o.Change.String(), o.Notes).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("order: insert: %w", err)
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, menu_item_id, name, quantity, unit_price, line_total, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, it.ID, o.ID, it.MenuItemID, it.Name, it.Quantity, it.UnitPrice.String(), it.LineTotal.String(), it.Notes); err != nil {
			return fmt.Errorf("order: insert item: %w", err)
		}
	}

	for _, invID := range usage.IDs() {
		if err := inventory.ApplyTx(ctx, tx, invID, usage[invID].Neg(), inventory.ReasonSale, &o.ID); err != nil {
			return err
		}
	}

	if o.CustomerID != nil && points > 0 {
		if err := customer.AwardPointsTx(ctx, tx, *o.CustomerID, points); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("order: get %s: %w", id, err)
	}
	items, err := r.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

func (r *PGRepo) GetItems(ctx context.Context, orderID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+itemCols+` FROM order_items WHERE order_id = $1 ORDER BY name`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.Quantity, &it.UnitPrice,
			&it.LineTotal, &it.Notes); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	var from, to *time.Time
	if !q.From.IsZero() {
		from = &q.From
	}
	if !q.To.IsZero() {
		to = &q.To
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+`
		FROM orders
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR customer_id::text = $2)
		  AND ($3 = '' OR employee_id::text = $3)
		  AND ($4::timestamptz IS NULL OR created_at >= $4)
		  AND ($5::timestamptz IS NULL OR created_at < $5)
		ORDER BY created_at DESC LIMIT $6 OFFSET $7
	`, q.Status, q.CustomerID, q.EmployeeID, from, to, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrChanged(ctx, id)
	}
	return nil
}

func (r *PGRepo) missingOrChanged(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusChanged
}

func (r *PGRepo) Cancel(ctx context.Context, id, from string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE orders SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrChanged(ctx, id)
	}

	rows, err := tx.Query(ctx, `
		SELECT inventory_id, SUM(delta)::text
		FROM inventory_movements
		WHERE order_id = $1 AND reason = $2
		GROUP BY inventory_id
	`, id, inventory.ReasonSale)
	if err != nil {
		return err
	}
	sold := Usage{}
	for rows.Next() {
		var invID string
		var delta decimal.Decimal
		if err := rows.Scan(&invID, &delta); err != nil {
			rows.Close()
			return err
		}
		sold[invID] = delta
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, invID := range sold.IDs() {
		if err := inventory.ApplyTx(ctx, tx, invID, sold[invID].Neg(), inventory.ReasonCancel, &id); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
