package execution

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus marks a webhook reply outside the 2xx range.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// ErrEmptyResponse marks a 2xx reply without a JSON body.
var ErrEmptyResponse = errors.New("empty response body")

// TransportError is the single failure kind of the execution client. Callers
// treat every cause the same way; the fields exist for logs only.
type TransportError struct {
	Endpoint   string
	StatusCode int // Zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("execute %s: HTTP %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("execute %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var transportErr *TransportError

	return errors.As(err, &transportErr)
}
