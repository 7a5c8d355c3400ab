// Package errs provides standardized error types for the dispatch application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - ConflictError: For when an operation loses a concurrent race
//   - InvalidStateError: For when an entity cannot accept an operation
//   - InvalidTransitionError: For status changes the state machine rejects
//   - ForbiddenError: For role/identity authorization failures
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// This standardized approach keeps error classification stable end-to-end:
// the request layer maps each sentinel to a distinct HTTP status without
// losing the distinction between the kinds.
package errs
