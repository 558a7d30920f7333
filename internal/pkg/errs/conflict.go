package errs

import "fmt"

// ConflictError signals a unique key collision, e.g. two writers creating the
// same order for one (customer, batch) pair, or two entries claiming one order line.
// Callers in the reconciliation path recover from it instead of surfacing it.
type ConflictError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewConflictError(paramName string, id any) *ConflictError {
	return &ConflictError{ParamName: paramName, ID: id}
}

func NewConflictErrorWithCause(paramName string, id any, cause error) *ConflictError {
	return &ConflictError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)", ErrConflict, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: param is: %s, ID is: %s", ErrConflict, e.ParamName, sanitize(e.ID))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// BlockedError reports an object whose state forbids the requested operation.
// Bulk operations collect these per item instead of failing the batch.
type BlockedError struct {
	ParamName string
	ID        any
	State     string
}

func NewBlockedError(paramName string, id any, state string) *BlockedError {
	return &BlockedError{ParamName: paramName, ID: id, State: state}
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s: %s %s is in state %s", ErrBlocked, e.ParamName, sanitize(e.ID), e.State)
}

func (e *BlockedError) Unwrap() error {
	return ErrBlocked
}

// InternalError wraps an unexpected store failure together with the id the
// caller attempted to act on.
type InternalError struct {
	ID    any
	Cause error
}

func NewInternalError(id any, cause error) *InternalError {
	return &InternalError{ID: id, Cause: cause}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: ID is: %s (cause: %v)", ErrInternal, sanitize(e.ID), e.Cause)
}

func (e *InternalError) Unwrap() []error {
	return []error{ErrInternal, e.Cause}
}
