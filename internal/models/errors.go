package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup by id has no backing document.
var ErrNotFound = errors.New("document not found")

// ErrTypeMismatch is returned when a merge or deserialization crosses
// incompatible document kinds.
var ErrTypeMismatch = errors.New("document kind mismatch")

// ErrTransient is returned when the remote backend is unreachable or timed
// out. It is the only retryable condition; retry policy belongs to the
// caller.
var ErrTransient = errors.New("backend temporarily unavailable")

// ErrMalformed is returned when a payload fails to parse into the expected
// document schema. Not retryable without a fixed payload.
var ErrMalformed = errors.New("malformed document payload")

// DocumentError wraps a failure with the operation and document id it
// occurred on, so callers can retry idempotently by id.
type DocumentError struct {
	Op  string
	ID  uuid.UUID
	Err error
}

// NewDocumentError wraps err with the failing operation and document id.
func NewDocumentError(op string, id uuid.UUID, err error) *DocumentError {
	return &DocumentError{Op: op, ID: id, Err: err}
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }
