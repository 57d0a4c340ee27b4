package cedar

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrorBody caps the response text kept in a StatusError.
const maxErrorBody = 200

// Error is a failed exchange with the CEDAR resource server. The client
// retries an Error while Retryable is set and attempts remain; every other
// error ends the request.
type Error struct {
	Retryable bool
	Err       error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func retryable(err error) error { return &Error{Retryable: true, Err: err} }

func permanent(err error) error { return &Error{Err: err} }

// IsTransient reports whether err is a retryable CEDAR error: a network
// failure, a rate limit or a server-side status.
func IsTransient(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Retryable
}

// IsFatal reports whether err is a CEDAR error that retrying cannot fix,
// such as a rejected API key, an unknown instance or an undecodable body.
func IsFatal(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && !ce.Retryable
}

// StatusError is a non-200 response from the CEDAR API.
type StatusError struct {
	StatusCode int
	// Body is the start of the response text.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("CEDAR API error (status %d): %s", e.StatusCode, e.Body)
}

// Temporary reports whether the status is rate limiting or a server fault.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// statusError wraps a non-200 response, retryable when its status is
// temporary.
func statusError(statusCode int, body []byte) error {
	text := string(body)
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	se := &StatusError{StatusCode: statusCode, Body: text}
	return &Error{Retryable: se.Temporary(), Err: se}
}
