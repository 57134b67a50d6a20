// Package apperr defines the error taxonomy shared by all handlers and the
// translation of persistence errors into it.
package apperr

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuthentication
	KindAuthorization
	KindConflict
	KindBusinessRule
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) *Error     { return newError(KindValidation, msg) }
func NotFound(msg string) *Error       { return newError(KindNotFound, msg) }
func Authentication(msg string) *Error { return newError(KindAuthentication, msg) }
func Authorization(msg string) *Error  { return newError(KindAuthorization, msg) }
func Conflict(msg string) *Error       { return newError(KindConflict, msg) }
func BusinessRule(msg string) *Error   { return newError(KindBusinessRule, msg) }

// Internal wraps an unexpected error with a caller-facing message.
func Internal(err error, msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the taxonomy kind; unknown errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps an error to its HTTP status. Conflict and business-rule
// failures map to 400, matching the API contract.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict, KindBusinessRule:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromDB translates gorm errors into the taxonomy. resource names what was
// being looked up, e.g. "producto".
func FromDB(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(resource + " no encontrado")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(resource + " ya existe en la base de datos")
	default:
		return Internal(err, "error del servidor")
	}
}
