package dbx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// TranslateError maps PostgreSQL constraint violations onto the structured
// taxonomy in package common. Errors that are not constraint violations are
// returned unchanged.
//
//	23502 not_null_violation    -> *common.ConflictError{Kind: NotNull}
//	23505 unique_violation      -> *common.ConflictError{Kind: UniqueViolation}
//	23503 foreign_key_violation -> *common.NotFoundError
func TranslateError(err error) error {
	if translated, ok := translate(err); ok {
		return translated
	}
	return err
}

// Wrap is what repositories return for a failed statement: the translated
// constraint error when there is one, otherwise err wrapped as "db error".
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if translated, ok := translate(err); ok {
		return translated
	}
	return fmt.Errorf("db error: %w", err)
}

func translate(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return nil, false
	}

	switch pgErr.Code {
	case pgerrcode.NotNullViolation:
		return &common.ConflictError{Kind: common.NotNull, Field: pgErr.ColumnName}, true
	case pgerrcode.UniqueViolation:
		return &common.ConflictError{Kind: common.UniqueViolation, Field: uniqueField(pgErr)}, true
	case pgerrcode.ForeignKeyViolation:
		return &common.NotFoundError{Entity: referencedEntity(pgErr)}, true
	}
	return nil, false
}

// uniqueField extracts the column from a unique violation. PostgreSQL does
// not fill ColumnName for 23505, so the detail ("Key (email)=(...)") and
// the "<table>_<column>_key" constraint naming are used instead.
func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if d := pgErr.Detail; strings.HasPrefix(d, "Key (") {
		if end := strings.Index(d, ")"); end > len("Key (") {
			return d[len("Key ("):end]
		}
	}
	name := strings.TrimSuffix(pgErr.ConstraintName, "_key")
	if pgErr.TableName != "" {
		name = strings.TrimPrefix(name, pgErr.TableName+"_")
	}
	return name
}

// referencedEntity names the parent row a foreign key points to, based on the
// "<table>_<column>_fkey" constraint naming convention.
func referencedEntity(pgErr *pgconn.PgError) string {
	switch {
	case strings.Contains(pgErr.ConstraintName, "user_id"):
		return "User"
	case strings.Contains(pgErr.ConstraintName, "card_id"):
		return "Card"
	}
	return "Referenced record"
}
