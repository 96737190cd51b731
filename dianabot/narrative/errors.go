package narrative

import (
	"errors"
	"fmt"
)

// NotFoundError means a fragment, decision or chapter is absent or
// soft-deleted. It points at unvalidated or corrupt content, so callers
// surface it as a hard error.
type NotFoundError struct {
	Entity string
	Ref    interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found or inactive", e.Entity, e.Ref)
}

// InsufficientFundsError is returned when a decision costs more besitos than
// the user has. No side effects have been applied when it is returned.
type InsufficientFundsError struct {
	UserID   int64
	Required int64
	Balance  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("user %d needs %d besitos but has %d", e.UserID, e.Required, e.Balance)
}

// AccessDeniedError carries the human-readable rejection of the requirement
// that failed, either its custom message or the kind's default.
type AccessDeniedError struct {
	FragmentKey string
	Message     string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access to fragment %s denied: %s", e.FragmentKey, e.Message)
}

// BrokenGraphError means a decision points at a fragment key that does not
// resolve to an active fragment. The validator should have caught it, but the
// transition engine still checks before applying any side effect.
type BrokenGraphError struct {
	DecisionID int64
	TargetKey  string
}

func (e *BrokenGraphError) Error() string {
	return fmt.Sprintf("decision %d targets missing fragment %q", e.DecisionID, e.TargetKey)
}

// ValidationError reports a malformed authoring/import payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload: %s: %s", e.Field, e.Reason)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsInsufficientFunds(err error) bool {
	var e *InsufficientFundsError
	return errors.As(err, &e)
}

func IsAccessDenied(err error) bool {
	var e *AccessDeniedError
	return errors.As(err, &e)
}

func IsBrokenGraph(err error) bool {
	var e *BrokenGraphError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
