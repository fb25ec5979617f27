package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// SteadyState is the reference equilibrium. It seeds the initial guesses and
// anchors both ends of the transition. Read-only.
type SteadyState struct {
	W   float64 // wage
	Div float64 // dividend
	Y   float64 // output
	R   float64 // gross real rate
	Tau float64 // tax rate

	Policy       []float64 // terminal consumption policy, state ordering iz*NK + ik
	Distribution []float64 // invariant distribution over the same states
}

// Validate checks the steady state against the parameter set.
func (ss *SteadyState) Validate(p *Params) error {
	n := p.StateCount()
	if len(ss.Policy) != n {
		return fmt.Errorf("steady-state policy has %d states, want %d: %w", len(ss.Policy), n, ErrDimensionMismatch)
	}
	if len(ss.Distribution) != n {
		return fmt.Errorf("steady-state distribution has %d states, want %d: %w", len(ss.Distribution), n, ErrDimensionMismatch)
	}
	if mass := floats.Sum(ss.Distribution); math.Abs(mass-1) > DistributionTolerance {
		return &DistributionError{Period: 1, Mass: mass}
	}
	for name, v := range map[string]float64{"w_ss": ss.W, "Y_ss": ss.Y, "R_ss": ss.R} {
		if !(v > 0) {
			return &DomainError{Field: name, Value: v, Reason: "steady-state value must be positive"}
		}
	}
	return nil
}
