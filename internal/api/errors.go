package api

import (
	"errors"
	"fmt"

	"github.com/ytget/social-client/internal/model"
)

var (
	// ErrNotFound is a definitive not-found answer. It is the only error that
	// lets a view render its not-found state.
	ErrNotFound = model.ErrNotFound

	// ErrInvalidCredentials is returned by Login when the backend rejects the credentials
	ErrInvalidCredentials = errors.New("api: invalid username or password")

	// ErrRejected is returned when the backend answered but refused the operation
	ErrRejected = errors.New("api: request rejected")
)

// TransportError reports a request that did not produce a usable answer:
// network failure, cancellation, or an unexpected HTTP status.
type TransportError struct {
	Op     string
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportFailure reports whether err is a transport failure rather than a
// definitive answer from the backend.
func IsTransportFailure(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
