package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/sandeepkv93/catalog-service/internal/observability"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductConflict = errors.New("product conflict")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserConflict    = errors.New("user conflict")
	ErrStoreUnexpected = errors.New("unexpected store failure")
)

const pgUniqueViolation = "23505"

// ConflictError reports a unique constraint violation on Field.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
	Detail string
}

func (e *ConflictError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Key (%s)=(%s) already exists.", e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool {
	switch e.Entity {
	case "user":
		return target == ErrUserConflict
	default:
		return target == ErrProductConflict
	}
}

var (
	pgKeyDetailRe      = regexp.MustCompile(`Key \(([^)]+)\)=\((.*)\) already exists`)
	sqliteUniqueColRe  = regexp.MustCompile(`UNIQUE constraint failed: \w+\.(\w+)`)
	constraintColumnRe = regexp.MustCompile(`^idx_\w+?_(\w+)$`)
)

// asConflict recognises unique violations from postgres (SQLSTATE 23505)
// and sqlite. lookup resolves the offending value when the driver does not
// report it.
func asConflict(entity string, err error, lookup func(field string) string) (*ConflictError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		c := &ConflictError{Entity: entity, Detail: pgErr.Detail}
		if m := pgKeyDetailRe.FindStringSubmatch(pgErr.Detail); m != nil {
			c.Field, c.Value = m[1], m[2]
		} else if m := constraintColumnRe.FindStringSubmatch(pgErr.ConstraintName); m != nil {
			c.Field = m[1]
		}
		if c.Value == "" && lookup != nil {
			c.Value = lookup(c.Field)
		}
		return c, true
	}

	msg := err.Error()
	if m := sqliteUniqueColRe.FindStringSubmatch(msg); m != nil {
		c := &ConflictError{Entity: entity, Field: m[1]}
		if lookup != nil {
			c.Value = lookup(c.Field)
		}
		return c, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(msg), "duplicate key") {
		return &ConflictError{Entity: entity, Detail: msg}, true
	}
	return nil, false
}

// storeFailure logs err once and wraps it as ErrStoreUnexpected. Callers
// above the repository must not log it again.
func storeFailure(ctx context.Context, logger *slog.Logger, repo, op string, err error) error {
	observability.RecordRepositoryOperation(ctx, repo, op, "error")
	logger.ErrorContext(ctx, "catalog store failure", "repository", repo, "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrStoreUnexpected, op, err)
}
