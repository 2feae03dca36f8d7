package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError_NotNull(t *testing.T) {
	raw := fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23502", ColumnName: "name", TableName: "users"})

	err := TranslateError(raw)

	var ce *common.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, common.NotNull, ce.Kind)
	assert.Equal(t, "name", ce.Field)
}

func TestTranslateError_Unique(t *testing.T) {
	tests := []struct {
		name  string
		pgErr *pgconn.PgError
	}{
		{"from detail", &pgconn.PgError{Code: "23505", Detail: "Key (email)=(a@b.c) already exists."}},
		{"from constraint", &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_email_key"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ce *common.ConflictError
			require.True(t, errors.As(TranslateError(tt.pgErr), &ce))
			assert.Equal(t, common.UniqueViolation, ce.Kind)
			assert.Equal(t, "email", ce.Field)
		})
	}
}

func TestTranslateError_ForeignKey(t *testing.T) {
	err := TranslateError(&pgconn.PgError{Code: "23503", ConstraintName: "cards_user_id_fkey"})

	var nf *common.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "User", nf.Entity)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestTranslateError_Passthrough(t *testing.T) {
	assert.Nil(t, TranslateError(nil))

	plain := errors.New("conn reset")
	assert.Same(t, plain, TranslateError(plain))

	other := &pgconn.PgError{Code: "40001"}
	assert.Same(t, other, TranslateError(other))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil))

	err := Wrap(errors.New("db down"))
	assert.EqualError(t, err, "db error: db down")

	var ce *common.ConflictError
	require.True(t, errors.As(Wrap(&pgconn.PgError{Code: "23502", ColumnName: "email"}), &ce))
	assert.Equal(t, "email", ce.Field)
}

func TestNullIfEmpty(t *testing.T) {
	assert.False(t, NullIfEmpty("").Valid)

	v := NullIfEmpty("x")
	assert.True(t, v.Valid)
	assert.Equal(t, "x", v.String)
}
