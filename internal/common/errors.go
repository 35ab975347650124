// Package common defines shared constants and sentinel errors used across
// the bicauth packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Invitation lifecycle errors. Expected, user-facing conditions,
	// never system faults.
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidToken     = errors.New("invalid or unknown token")
	ErrTokenUsed        = errors.New("token already used")
	ErrTokenExpired     = errors.New("token expired")
	ErrEmailMismatch    = errors.New("token is bound to another email")
	ErrPasswordRequired = errors.New("password required for new users")

	// Session-cookie token errors.
	ErrInvalidSessionToken = errors.New("invalid session token")
)
