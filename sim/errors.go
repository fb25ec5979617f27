package sim

import (
	"errors"
	"fmt"
)

// ErrNotConverged is wrapped by ConvergenceError so callers can test with errors.Is.
var ErrNotConverged = errors.New("transition did not converge")

// ErrDimensionMismatch reports a kernel/vector or path length mismatch.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// DistributionError reports a propagated distribution whose mass left the
// [1-tol, 1+tol] band. It is never recovered from.
type DistributionError struct {
	Period    int     // 1-indexed period whose successor distribution leaked
	Iteration int     // inner iteration (0 when unknown)
	Mass      float64 // sum of the propagated distribution
}

func (e *DistributionError) Error() string {
	return fmt.Sprintf("distribution mass %.12f at period %d (inner iteration %d) is not 1", e.Mass, e.Period, e.Iteration)
}

// DomainError reports an economically invalid parameter or a non-positive
// base reaching a fractional power in the pricing recursion.
type DomainError struct {
	Field  string
	Period int // 0 for parameter-level errors
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	if e.Period > 0 {
		return fmt.Sprintf("%s=%g at period %d: %s", e.Field, e.Value, e.Period, e.Reason)
	}
	return fmt.Sprintf("%s=%g: %s", e.Field, e.Value, e.Reason)
}

// ConvergenceError is returned under PolicyFail when a loop exhausts its cap.
type ConvergenceError struct {
	Loop       string // "inner" or "outer"
	Outer      int
	Iterations int
	Distance   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s loop hit its cap after %d iterations (outer %d, distance %.3e)", e.Loop, e.Iterations, e.Outer, e.Distance)
}

func (e *ConvergenceError) Unwrap() error { return ErrNotConverged }
