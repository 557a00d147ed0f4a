// Package apperr classifies errors coming out of repositories and remote
// calls so handlers can turn them into a status code and a short message.
package apperr

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Kind string

const (
	KindGeneric      Kind = "generic"
	KindNetwork      Kind = "network"
	KindDatabase     Kind = "database"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
)

// Error carries an explicit kind and a message meant for the caller.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func E(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Msg: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Msg: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Msg: msg} }

// Classify reports the kind of err. Explicit *Error kinds win over anything
// found deeper in the chain.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return KindNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ExclusionViolation,
			pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return KindConflict
		case pgerrcode.ForeignKeyViolation, pgerrcode.CheckViolation, pgerrcode.NotNullViolation,
			pgerrcode.InvalidTextRepresentation, pgerrcode.NumericValueOutOfRange:
			return KindValidation
		}
		if pgerrcode.IsConnectionException(pgErr.Code) {
			return KindNetwork
		}
		return KindDatabase
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return KindNetwork
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded:
			return KindNetwork
		case codes.Unauthenticated:
			return KindUnauthorized
		case codes.PermissionDenied:
			return KindForbidden
		case codes.InvalidArgument:
			return KindValidation
		case codes.NotFound:
			return KindNotFound
		case codes.AlreadyExists:
			return KindConflict
		}
	}
	return KindGeneric
}

// TxConflict reports whether Postgres aborted the transaction because it
// raced another one. The whole transaction can be run again.
func TxConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}

// UserMessage is the short notice shown to whoever triggered the failure.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNetwork:
		return "network error, check your connection and try again"
	case KindDatabase:
		return "database error, please try again"
	case KindGeneric:
		return "unexpected error"
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Msg != "" {
		return ae.Msg
	}
	if st, ok := status.FromError(err); ok && st.Message() != "" {
		return st.Message()
	}
	if TxConflict(err) {
		return "concurrent update, please try again"
	}
	switch Classify(err) {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "already exists"
	}
	return err.Error()
}
