package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"explicit", Validation("bad"), KindValidation},
		{"wrapped explicit", fmt.Errorf("svc: %w", NotFound("gone")), KindNotFound},
		{"no rows", fmt.Errorf("repo: %w", pgx.ErrNoRows), KindNotFound},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, KindConflict},
		{"fk", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, KindValidation},
		{"connection", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, KindNetwork},
		{"serialization", fmt.Errorf("tx: %w", &pgconn.PgError{Code: pgerrcode.SerializationFailure}), KindConflict},
		{"deadlock", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, KindConflict},
		{"other pg", &pgconn.PgError{Code: pgerrcode.DiskFull}, KindDatabase},
		{"deadline", context.DeadlineExceeded, KindNetwork},
		{"net op", &net.OpError{Op: "dial", Err: errors.New("refused")}, KindNetwork},
		{"grpc unavailable", status.Error(codes.Unavailable, "down"), KindNetwork},
		{"grpc unauthenticated", status.Error(codes.Unauthenticated, "no"), KindUnauthorized},
		{"plain", errors.New("boom"), KindGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "network error, check your connection and try again", UserMessage(context.DeadlineExceeded))
	assert.Equal(t, "database error, please try again", UserMessage(&pgconn.PgError{Code: pgerrcode.DiskFull}))
	assert.Equal(t, "concurrent update, please try again", UserMessage(&pgconn.PgError{Code: pgerrcode.DeadlockDetected}))
	assert.Equal(t, "quantity must be positive", UserMessage(fmt.Errorf("cart: %w", Validation("quantity must be positive"))))
	assert.Equal(t, "already exists", UserMessage(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.Equal(t, "unexpected error", UserMessage(errors.New("boom")))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := E(KindDatabase, "", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "cause", err.Error())
}

func TestTxConflict(t *testing.T) {
	assert.True(t, TxConflict(fmt.Errorf("commit: %w", &pgconn.PgError{Code: pgerrcode.SerializationFailure})))
	assert.True(t, TxConflict(&pgconn.PgError{Code: pgerrcode.DeadlockDetected}))
	assert.False(t, TxConflict(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, TxConflict(errors.New("boom")))
	assert.False(t, TxConflict(nil))
}
