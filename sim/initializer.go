package sim

import (
	"fmt"
	"math"
)

// ShockSpec describes a pre-announced, temporary change in the policy rate.
type ShockSpec struct {
	Horizon int     // T, number of periods including both steady-state boundaries
	Period  int     // TR, first period at which the rate differs from RBar
	Size    float64 // additive change in the gross rate (negative = cut)
	Length  int     // number of periods the change lasts (default 1)
	RBar    float64 // steady-state gross rate
}

// Validate checks that the shock fits inside the interior of the horizon.
func (s ShockSpec) Validate() error {
	if s.Horizon < 3 {
		return fmt.Errorf("horizon must be at least 3 periods, got %d", s.Horizon)
	}
	if s.Period < 2 || s.Period > s.Horizon-1 {
		return fmt.Errorf("shock period must lie in 2..%d, got %d", s.Horizon-1, s.Period)
	}
	if s.Length < 0 {
		return fmt.Errorf("shock length must be non-negative, got %d", s.Length)
	}
	if !(s.RBar > 0) || math.IsInf(s.RBar, 0) {
		return fmt.Errorf("steady-state rate must be positive and finite, got %g", s.RBar)
	}
	if s.RBar+s.Size <= 0 {
		return fmt.Errorf("shocked rate %g must stay positive", s.RBar+s.Size)
	}
	return nil
}

// RatePath returns R[t] = RBar + Size for Period <= t < Period+Length
// (clipped to the interior) and RBar elsewhere. Length 0 means one period.
func (s ShockSpec) RatePath() Path {
	length := s.Length
	if length == 0 {
		length = 1
	}
	r := ConstantPath(s.Horizon, s.RBar)
	return r.WithInterior(func(t int, x float64) float64 {
		if t >= s.Period && t < s.Period+length {
			return x + s.Size
		}
		return x
	})
}

// SteadyStateGuess returns constant guess paths at the steady state:
// w = w_ss, div = div_ss, S = 1.
func SteadyStateGuess(T int, ss *SteadyState) PathSet {
	return PathSet{
		W:   ConstantPath(T, ss.W),
		Div: ConstantPath(T, ss.Div),
		S:   ConstantPath(T, 1),
	}
}

// RunTransition builds the shock's rate path and steady-state guesses and
// solves the transition.
func RunTransition(shock ShockSpec, p *Params, ss *SteadyState, hh Household, cfg SolverConfig) (*Result, error) {
	if err := shock.Validate(); err != nil {
		return nil, fmt.Errorf("shock: %w", err)
	}
	solver, err := NewSolver(p, ss, hh, cfg)
	if err != nil {
		return nil, err
	}
	return solver.Solve(shock.RatePath(), SteadyStateGuess(shock.Horizon, ss))
}
