package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

var (
	ErrNotFound        = apperr.NotFound("profile not found")
	ErrAlreadyExist    = apperr.Conflict("a profile with this email already exists")
	ErrSessionNotFound = apperr.Unauthorized("session not found or expired")
)

type Repository interface {
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfileByID(ctx context.Context, id string) (*Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*Profile, error)
	CreateSession(ctx context.Context, s *Session) error
	// GetSession returns the session and its profile, expired or not.
	GetSession(ctx context.Context, token string) (*Session, *Profile, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const profileCols = `id, email, full_name, role, password_hash, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepo) CreateProfile(ctx context.Context, p *Profile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO profiles (id, email, full_name, role, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
		RETURNING created_at, updated_at
	`, p.ID, p.Email, p.FullName, p.Role, p.PasswordHash).Scan(&p.CreatedAt, &p.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrAlreadyExist
	}
	return err
}

func (r *PGRepo) getProfile(ctx context.Context, where string, arg any) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileCols+` FROM profiles WHERE `+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: get profile: %w", err)
	}
	return p, nil
}

func (r *PGRepo) GetProfileByID(ctx context.Context, id string) (*Profile, error) {
	return r.getProfile(ctx, `id = $1`, id)
}

func (r *PGRepo) GetProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	return r.getProfile(ctx, `email = $1`, email)
}

func (r *PGRepo) CreateSession(ctx context.Context, s *Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (token, profile_id, expires_at, created_at)
		VALUES ($1,$2,$3,NOW())
	`, s.Token, s.ProfileID, s.ExpiresAt)
	return err
}

func (r *PGRepo) GetSession(ctx context.Context, token string) (*Session, *Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s Session
	var p Profile
	err := r.db.QueryRow(ctx, `
		SELECT s.token, s.profile_id, s.expires_at,
		       p.id, p.email, p.full_name, p.role, p.password_hash, p.created_at, p.updated_at
		FROM sessions s JOIN profiles p ON p.id = s.profile_id
		WHERE s.token = $1
	`, token).Scan(&s.Token, &s.ProfileID, &s.ExpiresAt,
		&p.ID, &p.Email, &p.FullName, &p.Role, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("auth: get session: %w", err)
	}
	return &s, &p, nil
}

func (r *PGRepo) DeleteSession(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func (r *PGRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
