package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error codes for the auth core. Handlers map these onto HTTP responses; the
// public login and reset paths collapse several onto a generic message to
// avoid account enumeration.
const (
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeAccountBlocked        = "ACCOUNT_BLOCKED"
	CodeAccountDeleted        = "ACCOUNT_DELETED"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeUserExists            = "USER_EXISTS"
	CodePaymentRequired       = "PAYMENT_REQUIRED"
	CodeRateLimited           = "RATE_LIMITED"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewInvalidCredentials covers both unknown email and password mismatch so
// callers cannot tell which factor failed.
func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid email or password", http.StatusUnauthorized, nil)
}

func NewAccountBlocked() error {
	return NewDomainError(CodeAccountBlocked, "account is blocked", http.StatusForbidden, nil)
}

func NewAccountDeleted() error {
	return NewDomainError(CodeAccountDeleted, "account is deleted", http.StatusForbidden, nil)
}

// NewInvalidOrExpiredToken covers refresh and reset tokens alike: missing,
// expired, and already-consumed rows are indistinguishable to the caller.
func NewInvalidOrExpiredToken() error {
	return NewDomainError(CodeInvalidOrExpiredToken, "invalid or expired token", http.StatusUnauthorized, nil)
}

// NewUserNotFound is internal only; public login and reset paths must map it
// to NewInvalidCredentials or swallow it entirely.
func NewUserNotFound() error {
	return NewDomainError(CodeUserNotFound, "user not found", http.StatusNotFound, nil)
}

func NewUserExists() error {
	return NewDomainError(CodeUserExists, "user already exists", http.StatusConflict, nil)
}

func NewPaymentRequired(message string) error {
	return NewDomainError(CodePaymentRequired, message, http.StatusPaymentRequired, nil)
}

func NewRateLimited() error {
	return NewDomainError(CodeRateLimited, "too many requests", http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsUniqueViolation reports whether err is a Postgres unique violation,
// optionally narrowed to a single constraint. Insert paths use this to map
// races that slip past their duplicate pre-checks.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
