// Package service holds the business rules of the coworking platform.
// Services depend on the small store interfaces declared in stores.go and
// report failures as *Error values whose Kind maps onto an HTTP status.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/coworking-space/internal/repository"
)

// Error kinds. Match with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrBadRequest           = errors.New("bad request")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenAlreadyUsed     = errors.New("token already used")
	ErrForbidden            = errors.New("forbidden")
	ErrSubscriptionRequired = errors.New("subscription required")
	ErrUnavailable          = errors.New("unavailable")
	ErrIllegalState         = errors.New("illegal state")
	ErrConflict             = errors.New("conflict")
)

// Error is a business failure with a client-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error   { return newError(ErrNotFound, format, args...) }
func badRequest(format string, args ...any) error { return newError(ErrBadRequest, format, args...) }
func illegalState(format string, args ...any) error {
	return newError(ErrIllegalState, format, args...)
}

// lookup turns repository.ErrNotFound into a NotFound error naming what
// was missing. Other errors pass through.
func lookup(err error, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(format, args...)
	}
	return err
}

// Message returns the client-facing text of err, or "" for unexpected
// errors that must not leak.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
