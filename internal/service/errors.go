package service

import (
	"errors"
	"fmt"
)

// ErrReleaseNotFound indicates the requested release does not exist.
var ErrReleaseNotFound = errors.New("release not found")

// ErrSiteNotFound indicates the requested allowed site does not exist.
var ErrSiteNotFound = errors.New("allowed site not found")

// ErrTestNotFound indicates the referenced test does not exist.
var ErrTestNotFound = errors.New("test not found")

// ValidationError reports malformed input naming the offending field. It is
// raised before any persistence call, so a validation failure is never
// partially applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// BatchError reports a bulk fan-out that failed partway through. Releases
// created before the failure are kept; the caller decides whether to retry
// the remaining subset.
type BatchError struct {
	Created   int
	StudentID uint
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("bulk creation stopped after %d releases: student %d: %v", e.Created, e.StudentID, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
