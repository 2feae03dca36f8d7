package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", &common.ValidationError{Field: "body"}, http.StatusBadRequest, "The field body is invalid"},
		{"conflict", &common.ConflictError{Kind: common.UniqueViolation, Field: "email"}, http.StatusConflict, "Email address already in use"},
		{"wrapped conflict", fmt.Errorf("create: %w", &common.ConflictError{Kind: common.NotNull, Field: "name"}), http.StatusConflict, "The column name is required"},
		{"credentials", &common.AuthError{Err: common.ErrInvalidCredentials}, http.StatusUnauthorized, "Invalid email or password"},
		{"expired", &common.AuthError{Err: common.ErrTokenExpired}, http.StatusUnauthorized, "Token has expired"},
		{"forbidden", &common.ForbiddenError{}, http.StatusForbidden, "You are not allowed to perform this action"},
		{"bare forbidden", common.ErrForbidden, http.StatusForbidden, "You are not allowed to perform this action"},
		{"not found", &common.NotFoundError{Entity: "Card", ID: 1}, http.StatusNotFound, "Card with id 1 not found"},
		{"bare not found", common.ErrNotFound, http.StatusNotFound, "Not found"},
		{"other", errors.New("db error: boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := errorStatus(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestIPRateLimiter_DisabledWhenRateIsZero(t *testing.T) {
	l := newIPRateLimiter(0, 0)
	calls := 0
	h := l.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls++ }))

	for i := 0; i < 5; i++ {
		h.ServeHTTP(nil, &http.Request{RemoteAddr: "10.0.0.1:1"})
	}
	assert.Equal(t, 5, calls)
}

func TestIPRateLimiter_PerClient(t *testing.T) {
	l := newIPRateLimiter(0.001, 1)

	assert.True(t, l.get("10.0.0.1").Allow())
	assert.False(t, l.get("10.0.0.1").Allow())
	assert.True(t, l.get("10.0.0.2").Allow())
	assert.Same(t, l.get("10.0.0.1"), l.get("10.0.0.1"))
}
