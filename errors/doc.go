/*
Package errors provides semantic error types for the memorystore library.

Successful operations never return an error: a missing record is reported as
a nil result, not as a failure. Errors are reserved for precondition
violations, which fail fast instead of corrupting state.

Common Errors:

	var (
	    ErrNotFound     = errors.New("not found")
	    ErrInvalidInput = errors.New("invalid input")
	    ErrBackend      = errors.New("backend failure")
	)

Usage:

	recs, err := store.All(ctx, "User", storagemodels.OrderBy("nickname"))
	if err != nil {
	    if errors.IsNotFound(err) {
	        // the model was never defined
	    }
	    if errors.IsValidationError(err) {
	        // e.g. ordering by an undeclared property
	    }
	    return nil, err
	}

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
