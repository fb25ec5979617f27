package sim

import "fmt"

// NonConvergencePolicy selects what happens when a loop exhausts its cap.
type NonConvergencePolicy string

const (
	// PolicyWarn logs a warning and returns the best estimate with StatusCapExhausted.
	PolicyWarn NonConvergencePolicy = "warn"
	// PolicyFail returns the best estimate together with a *ConvergenceError.
	PolicyFail NonConvergencePolicy = "fail"
)

var validNonConvergencePolicies = map[NonConvergencePolicy]bool{
	PolicyWarn: true,
	PolicyFail: true,
	"":         true, // empty defaults to warn
}

// IsValidNonConvergencePolicy returns true if the given string is a recognized policy.
func IsValidNonConvergencePolicy(policy string) bool {
	return validNonConvergencePolicies[NonConvergencePolicy(policy)]
}

// SolverConfig groups the iteration caps, tolerances and relaxation of the
// transition solver.
type SolverConfig struct {
	MaxOuter int                  // cap on price-dispersion iterations (default 100)
	MaxInner int                  // cap on wage iterations per outer iteration (default 100)
	STol     float64              // max interior relative change in S (default 1e-6)
	WTol     float64              // max interior relative change in w (default 1e-6)
	Damping  float64              // weight on the new wage (default 0.25)
	Policy   NonConvergencePolicy // warn (default) or fail
}

// DefaultSolverConfig returns the standard caps and tolerances.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxOuter: 100,
		MaxInner: 100,
		STol:     1e-6,
		WTol:     1e-6,
		Damping:  0.25,
		Policy:   PolicyWarn,
	}
}

// Validate checks that all fields are usable.
func (c SolverConfig) Validate() error {
	if c.MaxOuter <= 0 || c.MaxInner <= 0 {
		return fmt.Errorf("iteration caps must be positive, got outer=%d inner=%d", c.MaxOuter, c.MaxInner)
	}
	if !(c.STol > 0) || !(c.WTol > 0) {
		return fmt.Errorf("tolerances must be positive, got S_tol=%g w_tol=%g", c.STol, c.WTol)
	}
	if !(c.Damping > 0 && c.Damping <= 1) {
		return fmt.Errorf("damping must lie in (0,1], got %g", c.Damping)
	}
	if !IsValidNonConvergencePolicy(string(c.Policy)) {
		return fmt.Errorf("unknown non-convergence policy %q; valid: warn, fail", c.Policy)
	}
	return nil
}
