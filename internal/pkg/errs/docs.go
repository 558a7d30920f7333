// Package errs provides standardized error types for the order desk application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package maps the error taxonomy of the reconciliation core:
//   - VALIDATION: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - NOT_FOUND: ObjectNotFoundError
//   - CONFLICT: ConflictError (unique key collisions, recovered by callers)
//   - BLOCKED: BlockedError (an order progressed past the point where it may be unwound)
//   - INTERNAL: InternalError (unexpected store failures, carrying the attempted id)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
package errs
