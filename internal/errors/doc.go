// Package errors provides typed error values for the rsenv application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The cmd
// layer relies on this to map failures onto stable exit codes.
//
// # Error Categories
//
// Errors are grouped by the layer that raises them:
//
//   - Binding errors: project-vault association (ErrNotBound, ErrAlreadyBound)
//   - Env graph errors: hierarchy resolution (ErrCycleDetected)
//   - Guard errors: file relocation (ErrAlreadyGuarded, ErrNotGuarded)
//   - Swap errors: swap state machine (ErrSwapConflict, ErrSwapActive)
//   - Config errors: layered configuration (ErrInvalidConfig)
//
// # Usage
//
// Return errors from internal packages:
//
//	if !bound {
//	    return rserrors.ErrNotBound
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("swap in %s: %w", rel, rserrors.ErrSwapConflict)
package errors
