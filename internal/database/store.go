package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/muhammadolammi/skillnest/internal/apierrors"
)

//go:embed schema.sql
var schema string

// The sentinels are shared with apierrors so handlers can map them directly.
var (
	ErrNotFound = apierrors.ErrNotFound
	ErrConflict = apierrors.ErrConflict
	ErrInvalid  = apierrors.ErrInvalid
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Store bundles the connection pool with its queries so callers can run
// several of them in one transaction.
type Store struct {
	*Queries
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		Queries: New(db),
		db:      db,
	}
}

func Open(dbURL string) (*Store, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("error opening db: %w", err)
	}
	return NewStore(db), nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// ExecTx runs fn inside a transaction and commits when it returns nil.
func (s *Store) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	if err := fn(s.Queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// Normalize maps driver errors onto the package sentinels.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	case foreignKeyViolation:
		// an id in the request points at a row that does not exist
		return fmt.Errorf("%w: referenced record does not exist (%s)", ErrInvalid, pqErr.Constraint)
	}
	return err
}

// IsConstraint reports whether err is a unique violation on the named constraint.
func IsConstraint(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
}
