package services

import (
	"errors"
	"fmt"

	"bursary-management-api/utils"
)

// ErrorKind identifies which invariant a rejected operation violated.
type ErrorKind string

const (
	ErrInsufficientFunds         ErrorKind = "insufficient_funds"
	ErrExceedsAllocated          ErrorKind = "exceeds_allocated"
	ErrScheduleExceedsAllocation ErrorKind = "schedule_exceeds_allocation"
	ErrDuplicateAllocation       ErrorKind = "duplicate_allocation"
	ErrAllocationUnavailable     ErrorKind = "allocation_unavailable"
	ErrInvalidTransition         ErrorKind = "invalid_transition"
	ErrForbidden                 ErrorKind = "forbidden"
	ErrMissingApprovedAmount     ErrorKind = "missing_approved_amount"
	ErrHasActiveCommitments      ErrorKind = "has_active_commitments"
	ErrAlreadyDisbursed          ErrorKind = "already_disbursed"
	ErrNotFound                  ErrorKind = "not_found"
	ErrBadInput                  ErrorKind = "bad_input"
)

// DomainError carries the violated invariant and, for funds errors, the exact
// boundary figure so the caller can show the user how much is actually left.
type DomainError struct {
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	Remaining *float64  `json:"remaining,omitempty"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// KindOf extracts the domain error kind, or "" for infrastructure errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// FundsError reports whether the kind is a money-boundary violation, as
// opposed to workflow misuse. The two are logged on separate prefixes.
func (k ErrorKind) FundsError() bool {
	switch k {
	case ErrInsufficientFunds, ErrExceedsAllocated, ErrScheduleExceedsAllocation:
		return true
	}
	return false
}

func insufficientFunds(remaining float64) *DomainError {
	r := remaining
	return &DomainError{
		Kind:      ErrInsufficientFunds,
		Message:   fmt.Sprintf("exceeds remaining amount of %s", utils.FormatAmount(remaining)),
		Remaining: &r,
	}
}

func exceedsAllocated(remaining float64) *DomainError {
	r := remaining
	return &DomainError{
		Kind:      ErrExceedsAllocated,
		Message:   fmt.Sprintf("exceeds undisbursed commitment of %s", utils.FormatAmount(remaining)),
		Remaining: &r,
	}
}

func scheduleExceedsAllocation(remaining float64) *DomainError {
	r := remaining
	return &DomainError{
		Kind:      ErrScheduleExceedsAllocation,
		Message:   fmt.Sprintf("schedule exceeds unscheduled allocation of %s", utils.FormatAmount(remaining)),
		Remaining: &r,
	}
}

func duplicateAllocation(educationLevel string) *DomainError {
	return &DomainError{
		Kind:    ErrDuplicateAllocation,
		Message: fmt.Sprintf("an active allocation already exists for education level '%s'", educationLevel),
	}
}

func allocationUnavailable(status string) *DomainError {
	return &DomainError{
		Kind:    ErrAllocationUnavailable,
		Message: fmt.Sprintf("allocation is %s and cannot receive new bindings", status),
	}
}

func invalidTransition(from, to string) *DomainError {
	return &DomainError{
		Kind:    ErrInvalidTransition,
		Message: fmt.Sprintf("no transition from '%s' to '%s'", from, to),
	}
}

func forbidden(role string, from, to string) *DomainError {
	return &DomainError{
		Kind:    ErrForbidden,
		Message: fmt.Sprintf("role '%s' may not move an application from '%s' to '%s'", role, from, to),
	}
}

func missingApprovedAmount() *DomainError {
	return &DomainError{
		Kind:    ErrMissingApprovedAmount,
		Message: "approved amount must be set before forwarding for allocation",
	}
}

func hasActiveCommitments(disbursed float64) *DomainError {
	return &DomainError{
		Kind:    ErrHasActiveCommitments,
		Message: fmt.Sprintf("record has %s already disbursed; disbursed money cannot be undone", utils.FormatAmount(disbursed)),
	}
}

func alreadyDisbursed(entryRef string) *DomainError {
	return &DomainError{
		Kind:    ErrAlreadyDisbursed,
		Message: fmt.Sprintf("schedule entry %s is already disbursed", entryRef),
	}
}

func notFound(entity string, id int) *DomainError {
	return &DomainError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("%s %d not found", entity, id),
	}
}

func badInput(msg string) *DomainError {
	return &DomainError{Kind: ErrBadInput, Message: msg}
}
