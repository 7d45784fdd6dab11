package common

import "errors"

var (
	// ErrNotFound is returned when a record id does not exist remotely.
	ErrNotFound = errors.New("not found")

	// ErrBusy is returned when an operation is started while the same
	// operation is still in flight.
	ErrBusy = errors.New("operation already in progress")
)
