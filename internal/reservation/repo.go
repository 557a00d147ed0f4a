// Package reservation books tables and keeps active bookings on the same
// table from overlapping.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
	"github.com/MikeMC777/restaurant-pos/internal/retry"
)

var (
	ErrNotFound    = apperr.NotFound("reservation not found")
	ErrTableBooked = apperr.Conflict("table already booked for that time")
)

type Query struct {
	From   time.Time
	To     time.Time
	Status string
	Limit  int
	Offset int
}

type Repository interface {
	// Create inserts r unless it overlaps an active reservation on the
	// same table, in which case ErrTableBooked is returned.
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, q Query) ([]Reservation, error)
	Update(ctx context.Context, r *Reservation) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectCols = `id, customer_id::text, name, phone, party_size, table_number, reserved_at, duration_minutes, status, notes, created_at, updated_at`

func scan(row pgx.Row) (*Reservation, error) {
	var r Reservation
	if err := row.Scan(&r.ID, &r.CustomerID, &r.Name, &r.Phone, &r.PartySize, &r.TableNumber, &r.ReservedAt,
		&r.DurationMinutes, &r.Status, &r.Notes, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// conflictTx reports whether an active reservation other than r.ID holds
// the table during r's slot. The table rows are locked for the rest of tx.
func conflictTx(ctx context.Context, tx pgx.Tx, r *Reservation) (bool, error) {
	var n int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM (
			SELECT id FROM reservations
			WHERE table_number = $1
			  AND id <> $2
			  AND status IN ('pending','confirmed','seated')
			  AND reserved_at < $4
			  AND reserved_at + (duration_minutes * INTERVAL '1 minute') > $3
			FOR UPDATE
		) AS clash
	`, r.TableNumber, r.ID, r.ReservedAt, r.End()).Scan(&n)
	return n > 0, err
}

// serialTx runs fn in a serializable transaction, running it again when
// Postgres aborts it for racing a concurrent booking. The rerun sees the
// committed booking and reports the clash.
func (p *PGRepo) serialTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return retry.DoIf(ctx, 3, 20*time.Millisecond, apperr.TxConflict, fn)
}

func (p *PGRepo) Create(ctx context.Context, r *Reservation) error {
	return p.serialTx(ctx, func(ctx context.Context) error { return p.create(ctx, r) })
}

func (p *PGRepo) create(ctx context.Context, r *Reservation) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	clash, err := conflictTx(ctx, tx, r)
	if err != nil {
		return fmt.Errorf("reservation: overlap check: %w", err)
	}
	if clash {
		return ErrTableBooked
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO reservations (id, customer_id, name, phone, party_size, table_number, reserved_at,
		                          duration_minutes, status, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
		RETURNING created_at, updated_at
	`, r.ID, r.CustomerID, r.Name, r.Phone, r.PartySize, r.TableNumber, r.ReservedAt,
		r.DurationMinutes, r.Status, r.Notes).Scan(&r.CreatedAt, &r.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *PGRepo) GetByID(ctx context.Context, id string) (*Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	r, err := scan(p.db.QueryRow(ctx, `SELECT `+selectCols+` FROM reservations WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reservation: get %s: %w", id, err)
	}
	return r, nil
}

func (p *PGRepo) List(ctx context.Context, q Query) ([]Reservation, error) {
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
	var from, to *time.Time
	if !q.From.IsZero() {
		from = &q.From
	}
	if !q.To.IsZero() {
		to = &q.To
	}
	rows, err := p.db.Query(ctx, `
		SELECT `+selectCols+` FROM reservations
		WHERE ($1::timestamptz IS NULL OR reserved_at >= $1)
		  AND ($2::timestamptz IS NULL OR reserved_at < $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY reserved_at
		LIMIT $4 OFFSET $5
	`, from, to, q.Status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Reservation
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Update replaces the booking details, re-checking the overlap rule.
func (p *PGRepo) Update(ctx context.Context, r *Reservation) error {
	return p.serialTx(ctx, func(ctx context.Context) error { return p.update(ctx, r) })
}

func (p *PGRepo) update(ctx context.Context, r *Reservation) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if Active(r.Status) {
		clash, err := conflictTx(ctx, tx, r)
		if err != nil {
			return fmt.Errorf("reservation: overlap check: %w", err)
		}
		if clash {
			return ErrTableBooked
		}
	}
	tag, err := tx.Exec(ctx, `
		UPDATE reservations
		SET customer_id = $2, name = $3, phone = $4, party_size = $5, table_number = $6,
		    reserved_at = $7, duration_minutes = $8, notes = $9, updated_at = NOW()
		WHERE id = $1
	`, r.ID, r.CustomerID, r.Name, r.Phone, r.PartySize, r.TableNumber, r.ReservedAt, r.DurationMinutes, r.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (p *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := p.db.Exec(ctx, `UPDATE reservations SET status=$2, updated_at=NOW() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := p.db.Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
