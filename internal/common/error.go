// Package common defines shared constants and sentinel errors used across
// the storage, service and transport layers of CardTrack. Callers should use
// errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal           = errors.New("internal error")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ConflictKind classifies a storage constraint violation.
type ConflictKind string

const (
	NotNull         ConflictKind = "not_null"
	UniqueViolation ConflictKind = "unique_violation"
)

// ConflictError reports a write rejected by a storage constraint.
// Field is the offending column when the engine reports it.
type ConflictError struct {
	Kind  ConflictKind
	Field string
}

func (e *ConflictError) Error() string {
	switch e.Kind {
	case NotNull:
		return fmt.Sprintf("The column %s is required", e.Field)
	case UniqueViolation:
		if e.Field == "email" {
			return "Email address already in use"
		}
		return fmt.Sprintf("The value of %s is already in use", e.Field)
	}
	return "conflict"
}

// ValidationError reports a request that is malformed before it ever
// reaches storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("The field %s is invalid", e.Field)
}

// NotFoundError names the entity that could not be found.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
	}
	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AuthError is an authentication failure: bad credentials or a missing,
// invalid or expired token.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "authentication failed: " + e.Err.Error() }

func (e *AuthError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// ForbiddenError is returned when an authenticated caller is not allowed to
// perform the operation.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	if e.Action == "" {
		return "You are not allowed to perform this action"
	}
	return "You are not allowed to " + e.Action
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }
