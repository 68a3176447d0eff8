// Package contracts holds types and error kinds shared across the
// simulation pipeline packages.
package contracts

import "errors"

// Error kinds for the simulation pipeline. Every validation failure in the
// core wraps exactly one of these, so callers can branch with errors.Is.
var (
	// ErrInvalidInput marks a malformed or out-of-range scalar parameter,
	// e.g. a non-positive initial value or a confidence level outside (0,1).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig marks a simulation config with non-positive counts.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDimensionMismatch marks inconsistent vector/matrix shapes between
	// mean, covariance, weights, or simulated paths.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNumerical marks a covariance that cannot be Cholesky-factored or a
	// computation degenerating into non-finite results.
	ErrNumerical = errors.New("numerical error")
)
