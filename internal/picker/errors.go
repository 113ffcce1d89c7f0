package picker

import (
	"errors"
	"fmt"
)

// Validation failures reported before any network call.
var (
	ErrEmptyName      = errors.New("opportunity name is required")
	ErrEmptySelection = errors.New("select at least one product")
)

// FetchError wraps a failed page or detail fetch. The view keeps its
// previous state when one is returned.
type FetchError struct {
	Op  string // "page" or "detail"
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError is a local precondition failure on submit.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// SubmissionError wraps a failed opportunity creation.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("create opportunity: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
