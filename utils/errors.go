package utils

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorKind is the closed set of failure categories callers may branch on.
// Handlers switch on the kind instead of matching message strings.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrNotFound
	ErrValidationFailed
	ErrWriteConflict
	ErrConnectivityFailure
)

// StoreError wraps a database error with its classified kind.
type StoreError struct {
	Kind ErrorKind
	Err  error
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// ClassifyDBError maps a gorm/pgx error onto the closed kind set.
// ErrRecordNotFound is benign for "does the extension row exist yet" probes;
// unique violations become write conflicts; everything else is connectivity.
func ClassifyDBError(err error) *StoreError {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &StoreError{Kind: ErrNotFound, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23xxx = integrity constraint violations
		if strings.HasPrefix(pgErr.Code, "23") {
			return &StoreError{Kind: ErrWriteConflict, Err: err}
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &StoreError{Kind: ErrWriteConflict, Err: err}
	}

	return &StoreError{Kind: ErrConnectivityFailure, Err: err}
}

// IsNotFound reports whether err is a benign no-rows result.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind == ErrNotFound
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}
