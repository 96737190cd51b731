package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dianabot/dianabot/dianabot/database"
	"github.com/uptrace/bun"
)

const defaultQueryTimeout = 10 * time.Second

// baseRepository carries the shared plumbing: the bun handle, transaction
// awareness and error normalization.
type baseRepository struct {
	db *bun.DB
}

// conn resolves the connection for ctx, joining an open transaction when the
// caller runs inside database.RunInTx.
func (br *baseRepository) conn(ctx context.Context) bun.IDB {
	return database.Conn(ctx, br.db)
}

// withTimeout bounds a single query. Queries inside a transaction keep the
// caller's deadline: the tx owns the overall budget.
func (br *baseRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if database.InTx(ctx) {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// ConflictError represents a data conflict error
type ConflictError struct {
	Entity string
	Field  string
	Value  interface{}
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %v already exists", ce.Entity, ce.Field, ce.Value)
}

// wrapErr tags an error with the failing operation and entity. Lookups handle
// sql.ErrNoRows themselves and report absence as (nil, nil), so the domain
// layer can apply its own taxonomy.
func wrapErr(operation, entity string, err error) error {
	if err == nil {
		return nil
	}
	return &RepositoryError{Operation: operation, Entity: entity, Err: err}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
