package model

import "fmt"

// FeedError is the base error for the feed domain.
type FeedError struct {
	Code    string
	Message string
	Err     error
}

func (e *FeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// ErrChangeNotFound - no audit row with the given id
var ErrChangeNotFound = &FeedError{
	Code:    "CHANGE_NOT_FOUND",
	Message: "Audit entry not found",
}

// ErrFeedUnavailable - audit tab fetch failed with no fallback
var ErrFeedUnavailable = &FeedError{
	Code:    "FEED_UNAVAILABLE",
	Message: "Community feed unavailable",
}

// NewFeedUnavailable wraps a fetch failure.
func NewFeedUnavailable(err error) *FeedError {
	return &FeedError{
		Code:    "FEED_UNAVAILABLE",
		Message: "Community feed unavailable",
		Err:     err,
	}
}
