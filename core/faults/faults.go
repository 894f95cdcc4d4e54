package faults

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind categorizes an application error.
type Kind string

const (
	// KindAuthentication signals bad or expired upstream credentials.
	KindAuthentication Kind = "authentication_error"
	// KindUpstreamSync signals a terminal failure talking to the external provider.
	KindUpstreamSync Kind = "upstream_sync_error"
	// KindValidation signals invalid caller input. Never retried.
	KindValidation Kind = "validation_error"
	// KindPrecondition signals an operation attempted in the wrong state.
	KindPrecondition Kind = "precondition_error"
	// KindForbidden signals a caller lacking privilege for the operation.
	KindForbidden Kind = "forbidden"
	// KindNotFound signals an unknown or unowned entity.
	KindNotFound Kind = "not_found"
)

// Error is an application error with a Kind and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	// ProviderStatus holds the upstream HTTP status for UpstreamSync errors.
	// Zero when not applicable.
	ProviderStatus int
	Err            error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind wrapping a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Upstream creates an UpstreamSync error carrying the provider status.
func Upstream(status int, format string, args ...any) *Error {
	return &Error{Kind: KindUpstreamSync, Message: fmt.Sprintf(format, args...), ProviderStatus: status}
}

// KindOf returns the kind of err, or the empty Kind for non-taxonomy errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// IsKind reports whether err (or anything it wraps) has the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the response status handlers should use.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindPrecondition:
		return fiber.StatusConflict
	case KindForbidden:
		return fiber.StatusForbidden
	case KindAuthentication:
		return fiber.StatusUnauthorized
	case KindUpstreamSync:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
