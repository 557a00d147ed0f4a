// Package menu provides the repository interface and PostgreSQL
// implementation for the items sold at the register.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

var (
	ErrNotFound = apperr.NotFound("menu item not found")
)

type Query struct {
	Q             string
	Category      string
	OnlyAvailable bool
	Limit         int
	Offset        int
}

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	GetMany(ctx context.Context, ids []string) (map[string]Item, error)
	List(ctx context.Context, q Query) ([]Item, error)
	Update(ctx context.Context, it *Item, updatePrice bool) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectCols = `id, name, description, category, price::text, available, inventory_id::text, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Category, &it.Price, &it.Available,
		&it.InventoryID, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *PGRepo) Create(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO menu_items (id, name, description, category, price, available, inventory_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
		RETURNING created_at, updated_at
	`, it.ID, it.Name, it.Description, it.Category, it.Price.String(), it.Available, it.InventoryID).
		Scan(&it.CreatedAt, &it.UpdatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	it, err := scanItem(r.db.QueryRow(ctx, `SELECT `+selectCols+` FROM menu_items WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("menu: get %s: %w", id, err)
	}
	return it, nil
}

func (r *PGRepo) GetMany(ctx context.Context, ids []string) (map[string]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := make(map[string]Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+selectCols+` FROM menu_items WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("menu: get many: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out[it.ID] = *it
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

	rows, err := r.db.Query(ctx, `
		SELECT `+selectCols+`
		FROM menu_items
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		  AND ($2 = '' OR category = $2)
		  AND (NOT $3 OR available)
		ORDER BY category, name
		LIMIT $4 OFFSET $5
	`, strings.TrimSpace(q.Q), q.Category, q.OnlyAvailable, limit, offset)
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

func (r *PGRepo) Update(ctx context.Context, it *Item, updatePrice bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	price := ""
	if updatePrice {
		price = it.Price.String()
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET name         = COALESCE(NULLIF($2,''), name),
		    description  = COALESCE(NULLIF($3,''), description),
		    category     = COALESCE(NULLIF($4,''), category),
		    price        = COALESCE(NULLIF($5,'')::numeric, price),
		    inventory_id = COALESCE($6::uuid, inventory_id),
		    updated_at   = NOW()
		WHERE id = $1
	`, it.ID, it.Name, it.Description, it.Category, price, it.InventoryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE menu_items SET available=$2, updated_at=NOW() WHERE id=$1`, id, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
