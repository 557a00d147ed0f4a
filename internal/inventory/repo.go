// Package inventory tracks stock on hand and every movement applied to it.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

var (
	ErrNotFound          = apperr.NotFound("inventory item not found")
	ErrInsufficientStock = apperr.Conflict("insufficient stock")
)

type Query struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, q Query) ([]Item, error)
	ListLowStock(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id string) (bool, error)
	Adjust(ctx context.Context, id string, delta decimal.Decimal, reason string) (*Item, error)
	Movements(ctx context.Context, id string, limit, offset int) ([]Movement, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectCols = `id, name, unit, quantity::text, reorder_level::text, cost_per_unit::text, supplier, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Unit, &it.Quantity, &it.ReorderLevel, &it.CostPerUnit,
		&it.Supplier, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *PGRepo) Create(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO inventory (id, name, unit, quantity, reorder_level, cost_per_unit, supplier, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
		RETURNING created_at, updated_at
	`, it.ID, it.Name, it.Unit, it.Quantity.String(), it.ReorderLevel.String(), it.CostPerUnit.String(), it.Supplier).
		Scan(&it.CreatedAt, &it.UpdatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	it, err := scanItem(r.db.QueryRow(ctx, `SELECT `+selectCols+` FROM inventory WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("inventory: get %s: %w", id, err)
	}
	return it, nil
}

func (r *PGRepo) list(ctx context.Context, sql string, args ...any) ([]Item, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	return r.list(ctx, `
		SELECT `+selectCols+` FROM inventory
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR supplier ILIKE '%'||$1||'%')
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, strings.TrimSpace(q.Q), limit, offset)
}

func (r *PGRepo) ListLowStock(ctx context.Context) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.list(ctx, `
		SELECT `+selectCols+` FROM inventory
		WHERE quantity <= reorder_level
		ORDER BY (quantity - reorder_level), name
	`)
}

func (r *PGRepo) Update(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE inventory
		SET name          = COALESCE(NULLIF($2,''), name),
		    unit          = COALESCE(NULLIF($3,''), unit),
		    reorder_level = COALESCE(NULLIF($4,'')::numeric, reorder_level),
		    cost_per_unit = COALESCE(NULLIF($5,'')::numeric, cost_per_unit),
		    supplier      = COALESCE(NULLIF($6,''), supplier),
		    updated_at    = NOW()
		WHERE id = $1
	`, it.ID, it.Name, it.Unit, decString(it.ReorderLevel), decString(it.CostPerUnit), it.Supplier)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// decString maps the zero value to "" so the column is left unchanged.
func decString(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) Adjust(ctx context.Context, id string, delta decimal.Decimal, reason string) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := ApplyTx(ctx, tx, id, delta, reason, nil); err != nil {
		return nil, err
	}
	it, err := scanItem(tx.QueryRow(ctx, `SELECT `+selectCols+` FROM inventory WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	return it, tx.Commit(ctx)
}

// ApplyTx moves stock by delta inside tx and records the movement. A result
// below zero fails with ErrInsufficientStock and leaves the row untouched.
func ApplyTx(ctx context.Context, tx pgx.Tx, id string, delta decimal.Decimal, reason string, orderID *string) error {
	var qty decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT quantity::text FROM inventory WHERE id=$1 FOR UPDATE`, id).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("inventory: lock %s: %w", id, err)
	}
	if qty.Add(delta).IsNegative() {
		return ErrInsufficientStock
	}
	if _, err := tx.Exec(ctx, `
		UPDATE inventory SET quantity = quantity + $2, updated_at = NOW() WHERE id = $1
	`, id, delta.String()); err != nil {
		return fmt.Errorf("inventory: update %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO inventory_movements (id, inventory_id, delta, reason, order_id, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
	`, uuid.NewString(), id, delta.String(), reason, orderID); err != nil {
		return fmt.Errorf("inventory: record movement %s: %w", id, err)
	}
	return nil
}

func (r *PGRepo) Movements(ctx context.Context, id string, limit, offset int) ([]Movement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, inventory_id, delta::text, reason, order_id::text, created_at
		FROM inventory_movements
		WHERE inventory_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, id, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.InventoryID, &m.Delta, &m.Reason, &m.OrderID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
