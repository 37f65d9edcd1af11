package submission

import (
	"errors"
	"fmt"
)

// ErrRateLimited is the cause wrapped by every RateLimitError
var ErrRateLimited = errors.New("rate limited")

// InputError is a client input problem. Its message is shown to the caller
// as-is and the request is never retried.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Invalid returns an InputError carrying msg
func Invalid(msg string) error {
	return &InputError{Message: msg}
}

// RateLimitError reports that the client exceeded the endpoint's window
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// UpstreamError is a persistence failure. Message is the generic text safe to
// return to the caller; Err is only logged.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
