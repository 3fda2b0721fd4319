package booking

import (
	"errors"
	"fmt"

	"github.com/BruksfildServices01/weekly-signup/internal/httperr"
)

var (
	// ErrConflict means the slot is already held; the caller must resync, not retry.
	ErrConflict = httperr.BusinessError{Code: "slot_already_booked"}

	// ErrNotFound means the booking is already gone.
	ErrNotFound = httperr.BusinessError{Code: "booking_not_found"}
)

// ValidationError is returned before any external call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Code follows the error_code convention of the HTTP layer.
func (e *ValidationError) Code() string {
	return "invalid_" + e.Field
}

// TransportError wraps a failure to reach or understand the endpoint.
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

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
