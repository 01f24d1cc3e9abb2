package snapshot

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Capture when the campaign does not exist.
var ErrNotFound = errors.New("campaign not found")

// ErrMissingMapping signals a child entity in a snapshot whose parent was
// never assigned a new identifier, i.e. the snapshot is internally
// inconsistent.
var ErrMissingMapping = errors.New("missing identifier mapping")

// ValidationError reports a structurally malformed snapshot document. It is
// detected before any transaction is opened; no state was mutated.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid snapshot document: %v", e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// IntegrityError reports an unresolvable reference inside a snapshot or a
// constraint rejection from the storage engine. The whole restore was rolled
// back; no partial campaign exists.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity failure during %s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// TransientError reports a storage connectivity or timeout failure. The
// caller decides whether to retry; the engine never retries on its own.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// wrapWriteError classifies an insert failure inside the restore transaction.
// Cancellation and deadline expiry are transient; everything else the engine
// treats as a constraint rejection.
func wrapWriteError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Op: op, Err: err}
	}
	return &IntegrityError{Op: op, Err: err}
}
