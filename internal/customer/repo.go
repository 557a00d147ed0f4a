package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

var (
	ErrNotFound     = apperr.NotFound("customer not found")
	ErrAlreadyExist = apperr.Conflict("customer with this email already exists")
)

type Query struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, q Query) ([]Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectCols = `id, name, email, phone, notes, loyalty_points, created_at, updated_at`

func scan(row pgx.Row) (*Customer, error) {
	var c Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.LoyaltyPoints, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *PGRepo) Create(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (id, name, email, phone, notes, loyalty_points, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,0,NOW(),NOW())
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.Email, c.Phone, c.Notes).Scan(&c.CreatedAt, &c.UpdatedAt)
	if uniqueViolation(err) {
		return ErrAlreadyExist
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c, err := scan(r.db.QueryRow(ctx, `SELECT `+selectCols+` FROM customers WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customer: get %s: %w", id, err)
	}
	return c, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Customer, error) {
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
		SELECT `+selectCols+` FROM customers
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR email ILIKE '%'||$1||'%' OR phone ILIKE '%'||$1||'%')
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, strings.TrimSpace(q.Q), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Customer
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET name       = COALESCE(NULLIF($2,''), name),
		    email      = COALESCE($3, email),
		    phone      = COALESCE(NULLIF($4,''), phone),
		    notes      = COALESCE(NULLIF($5,''), notes),
		    updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Name, c.Email, c.Phone, c.Notes)
	if uniqueViolation(err) {
		return ErrAlreadyExist
	}
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

	cmd, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// AwardPointsTx adds loyalty points inside the checkout transaction.
func AwardPointsTx(ctx context.Context, tx pgx.Tx, id string, points int) error {
	if points <= 0 {
		return nil
	}
	tag, err := tx.Exec(ctx, `
		UPDATE customers SET loyalty_points = loyalty_points + $2, updated_at = NOW() WHERE id = $1
	`, id, points)
	if err != nil {
		return fmt.Errorf("customer: award points %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
