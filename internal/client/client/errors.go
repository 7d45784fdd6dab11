package client

import (
	"errors"
	"fmt"
)

// ErrUnavailable means the service could not be reached in time.
var ErrUnavailable = errors.New("server unavailable")

// TransportError is any remote-call failure other than not-found.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
