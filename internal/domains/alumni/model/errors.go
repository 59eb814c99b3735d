package model

import "fmt"

// AlumniError is the base error for the alumni domain.
type AlumniError struct {
	Code    string
	Message string
	Err     error
}

func (e *AlumniError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AlumniError) Unwrap() error {
	return e.Err
}

// ErrProfileNotFound - no visible row for the slug
var ErrProfileNotFound = &AlumniError{
	Code:    "PROFILE_NOT_FOUND",
	Message: "Alumni profile not found",
}

// ErrRosterUnavailable - roster fetch failed with no fallback
var ErrRosterUnavailable = &AlumniError{
	Code:    "ROSTER_UNAVAILABLE",
	Message: "Alumni roster unavailable",
}

// NewRosterUnavailable wraps a fetch failure.
func NewRosterUnavailable(err error) *AlumniError {
	return &AlumniError{
		Code:    "ROSTER_UNAVAILABLE",
		Message: "Alumni roster unavailable",
		Err:     err,
	}
}
