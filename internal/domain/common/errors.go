package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound              = errors.New("requested item not found")
	ErrConflict              = errors.New("item already exists or conflict")
	ErrUnsupportedCurrency   = errors.New("currency is not supported")
	ErrRateLookupFailed      = errors.New("conversion rate unavailable")
	ErrAccountHasNoHoldings  = errors.New("account holds no currencies")
	ErrAmbiguousMatch        = errors.New("more than one entry matches, add more detail")
	ErrTooManyMatches        = errors.New("filter matches too many entries, narrow it down")
	ErrNoMatches             = errors.New("no entries match the filter")
	ErrExtractionRateLimited = errors.New("too many extraction requests, slow down")
	ErrDuplicateConfirm      = errors.New("confirmation already in flight")
)

// MissingFieldsError reports why a candidate batch cannot be committed yet.
// Reasons are user-facing strings; Index points at the first candidate that
// failed validation so the caller can hold its draft for corrections.
type MissingFieldsError struct {
	Index   int
	Reasons []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("candidate %d is missing: %s", e.Index, strings.Join(e.Reasons, ", "))
}

// CommitError wraps the failure that aborted a batch commit after the
// compensating deletes ran.
type CommitError struct {
	Cause error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("batch commit failed: %v", e.Cause)
}

func (e *CommitError) Unwrap() error {
	return e.Cause
}
