package employee

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
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

var (
	ErrNotFound       = apperr.NotFound("employee not found")
	ErrTargetNotFound = apperr.NotFound("target not found")
	ErrAlreadyExist   = apperr.Conflict("employee with this email already exists")
)

type Query struct {
	Q          string
	Role       string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context, q Query) ([]Employee, error)
	Update(ctx context.Context, e *Employee, setActive bool) error
	Delete(ctx context.Context, id string) (bool, error)

	CreateTarget(ctx context.Context, t *Target) error
	ListTargets(ctx context.Context, employeeID string) ([]Target, error)
	// SalesBetween sums completed order totals served by the employee.
	SalesBetween(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectCols = `id, first_name, last_name, email, phone, role, hourly_rate::text, hired_at, active, created_at, updated_at`

func scan(row pgx.Row) (*Employee, error) {
	var e Employee
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.Role, &e.HourlyRate,
		&e.HiredAt, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func isUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *PGRepo) Create(ctx context.Context, e *Employee) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO employees (id, first_name, last_name, email, phone, role, hourly_rate, hired_at, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
		RETURNING created_at, updated_at
	`, e.ID, e.FirstName, e.LastName, e.Email, e.Phone, e.Role, e.HourlyRate.String(), e.HiredAt, e.Active).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if isUnique(err) {
		return ErrAlreadyExist
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	e, err := scan(r.db.QueryRow(ctx, `SELECT `+selectCols+` FROM employees WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("employee: get %s: %w", id, err)
	}
	return e, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Employee, error) {
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
		SELECT `+selectCols+` FROM employees
		WHERE ($1 = '' OR first_name ILIKE '%'||$1||'%' OR last_name ILIKE '%'||$1||'%' OR email ILIKE '%'||$1||'%')
		  AND ($2 = '' OR role = $2)
		  AND (NOT $3 OR active)
		ORDER BY last_name, first_name
		LIMIT $4 OFFSET $5
	`, strings.TrimSpace(q.Q), q.Role, q.ActiveOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Employee
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, e *Employee, setActive bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rate := ""
	if !e.HourlyRate.IsZero() {
		rate = e.HourlyRate.String()
	}
	var hired *time.Time
	if !e.HiredAt.IsZero() {
		hired = &e.HiredAt
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE employees
		SET first_name  = COALESCE(NULLIF($2,''), first_name),
		    last_name   = COALESCE(NULLIF($3,''), last_name),
		    email       = COALESCE(NULLIF($4,''), email),
		    phone       = COALESCE(NULLIF($5,''), phone),
		    role        = COALESCE(NULLIF($6,''), role),
		    hourly_rate = COALESCE(NULLIF($7,'')::numeric, hourly_rate),
		    hired_at    = COALESCE($8, hired_at),
		    active      = CASE WHEN $9 THEN $10 ELSE active END,
		    updated_at  = NOW()
		WHERE id = $1
	`, e.ID, e.FirstName, e.LastName, e.Email, e.Phone, e.Role, rate, hired, setActive, e.Active)
	if isUnique(err) {
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

	cmd, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) CreateTarget(ctx context.Context, t *Target) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO employee_targets (id, employee_id, period_start, period_end, amount, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		RETURNING created_at
	`, t.ID, t.EmployeeID, t.PeriodStart, t.PeriodEnd, t.Amount.String()).Scan(&t.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return ErrNotFound
	}
	return err
}

func (r *PGRepo) ListTargets(ctx context.Context, employeeID string) ([]Target, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, employee_id, period_start, period_end, amount::text, created_at
		FROM employee_targets
		WHERE employee_id = $1
		ORDER BY period_start DESC
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Target
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.ID, &t.EmployeeID, &t.PeriodStart, &t.PeriodEnd, &t.Amount, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PGRepo) SalesBetween(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)::text
		FROM orders
		WHERE employee_id = $1 AND status = 'completed'
		  AND created_at >= $2 AND created_at < $3
	`, employeeID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("employee: sales for %s: %w", employeeID, err)
	}
	return total, nil
}
