// Package apperr defines the cross-module error taxonomy used by the
// job-discovery backbone. Each module still keeps its own sentinel
// errors for domain-specific conflict codes; apperr gives them a common
// Kind so the HTTP boundary can pick a status without knowing every
// module's vocabulary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error the way the API boundary needs to handle it.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindAdminRequired     Kind = "admin_required"
	KindProviderTransient Kind = "provider_transient"
	KindProviderFatal     Kind = "provider_fatal"
	KindUnregisteredModel Kind = "unregistered_model"
	KindNoPricingConfig   Kind = "no_pricing_config"
	KindInternal          Kind = "internal"
)

// Error is a typed error carrying a Kind, a stable machine-readable Code,
// a human message, and optional structured Details. It wraps an
// underlying cause so errors.Is/errors.As keep working across the
// boundary.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap builds an *Error around an existing cause.
func Wrap(kind Kind, code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

// WithDetails attaches structured details and returns the same *Error
// for chaining at the construction site.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// KindOf extracts the Kind from err, defaulting to KindInternal when err
// is not an *Error (or wraps none).
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps a Kind to the HTTP status the API boundary should use.
// Kept here (rather than in internal/platform/http) so non-HTTP callers
// (the dedup CLI, the surfacing worker) can reason about severity without
// importing the HTTP package.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	case KindAdminRequired:
		return 403
	case KindProviderTransient:
		return 503
	case KindProviderFatal:
		return 502
	case KindUnregisteredModel:
		return 503
	case KindNoPricingConfig:
		return 503
	default:
		return 500
	}
}
