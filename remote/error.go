package remote

import (
	"errors"
	"fmt"
)

// HTTP-like status codes the engine gives special meaning to.
const (
	// CodeProcessing marks a map whose uploaded data the service has not
	// finished processing yet. Retryable later, not a hard failure.
	CodeProcessing = 425
	CodeNotFound   = 404
)

// Error is the typed failure reported by a Client implementation.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote: %s (code %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("remote: code %d", e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a typed remote error.
func NewError(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Err: cause}
}

// IsProcessing reports whether the error means the map is not yet
// processed by the service.
func IsProcessing(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Code == CodeProcessing
}

// IsNotFound reports whether the error is a remote not-found.
func IsNotFound(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Code == CodeNotFound
}
