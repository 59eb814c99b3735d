package model

import (
	"fmt"
)

// SlugError is the base error for the slug domain.
type SlugError struct {
	Code    string // unique error code (e.g. "SLUG_SELF_FORWARD")
	Message string // human-readable message
	Err     error  // underlying error
}

func (e *SlugError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SlugError) Unwrap() error {
	return e.Err
}

// ErrSelfForward - a rule may not forward a slug to itself
var ErrSelfForward = &SlugError{
	Code:    "SLUG_SELF_FORWARD",
	Message: "fromSlug and toSlug must differ",
}

// ErrInvalidSlug - input does not fold to a usable slug
var ErrInvalidSlug = &SlugError{
	Code:    "SLUG_INVALID",
	Message: "not a valid slug",
}

// ErrUpstreamUnavailable - the sheet export failed and no fallback exists
var ErrUpstreamUnavailable = &SlugError{
	Code:    "SLUG_UPSTREAM_UNAVAILABLE",
	Message: "slug data source unavailable",
}

// NewUpstreamUnavailable wraps a fetch failure.
func NewUpstreamUnavailable(err error) *SlugError {
	return &SlugError{
		Code:    "SLUG_UPSTREAM_UNAVAILABLE",
		Message: "slug data source unavailable",
		Err:     err,
	}
}
