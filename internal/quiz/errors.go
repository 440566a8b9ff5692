package quiz

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for lookups of cases or questions that do not
// exist (or were deleted under the caller).
var ErrNotFound = errors.New("not found")

// ErrIncompleteResponse marks a submission that is not well-formed for the
// current variant (empty text, no option picked). It causes no state
// transition and is not learner feedback.
var ErrIncompleteResponse = errors.New("incomplete response")

// ValidationError reports a rejected authoring write. The prior persisted
// value is left intact.
type ValidationError struct {
	Invariant string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Invariant
}

func invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{Invariant: fmt.Sprintf(format, args...)}
}

// IntegrityError means a persisted question violates its own variant
// invariant at evaluation time. It is an authoring defect, distinct from an
// incorrect answer, and must never be coerced to Correct=false.
type IntegrityError struct {
	QuestionID string
	Reason     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("question %s: integrity: %s", e.QuestionID, e.Reason)
}

// StoreError wraps a failed read or write against the persistent store.
// The in-memory state that triggered the call is left unchanged; retry
// policy belongs to the caller.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IllegalTransitionError is a programming error: the caller invoked a
// session operation in a state that does not permit it.
type IllegalTransitionError struct {
	State SessionState
	Op    string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: %s while %s", e.Op, e.State)
}
