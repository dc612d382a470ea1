// Package apperror holds the domain error kinds shared by services and the
// HTTP layer. Services return *Error; helper.FromError maps Kind to status.
package apperror

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindNoRoster
	KindNotFound
	KindConfiguration
	KindConflict
	KindUnavailable
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindDuplicate:
		return "DuplicateValueError"
	case KindNoRoster:
		return "NoRosterError"
	case KindNotFound:
		return "NotFoundError"
	case KindConfiguration:
		return "ConfigurationError"
	case KindConflict:
		return "ConflictError"
	case KindUnavailable:
		return "UnavailableError"
	case KindForbidden:
		return "ForbiddenError"
	default:
		return "InternalError"
	}
}

// Error: Message aman ditampilkan ke client, Cause hanya untuk log.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error  { return newf(KindValidation, format, args...) }
func Duplicate(format string, args ...any) *Error   { return newf(KindDuplicate, format, args...) }
func NoRoster(format string, args ...any) *Error    { return newf(KindNoRoster, format, args...) }
func NotFound(format string, args ...any) *Error    { return newf(KindNotFound, format, args...) }
func Conflict(format string, args ...any) *Error    { return newf(KindConflict, format, args...) }
func Unavailable(format string, args ...any) *Error { return newf(KindUnavailable, format, args...) }
func Forbidden(format string, args ...any) *Error   { return newf(KindForbidden, format, args...) }

func Configuration(format string, args ...any) *Error {
	return newf(KindConfiguration, format, args...)
}

// Internal wraps an unexpected failure. The message is the cause text.
func Internal(cause error) *Error {
	if cause == nil {
		cause = errors.New("unknown error")
	}
	return &Error{Kind: KindInternal, Message: cause.Error(), Cause: cause}
}

// Wrap attaches cause to an existing kind without changing its message.
func (e *Error) Wrap(cause error) *Error {
	e.Cause = cause
	return e
}

func Is(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}
