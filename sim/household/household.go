// Package household provides a reference household block for the transition
// solver: a small heterogeneous-agent economy over a (productivity x asset)
// grid that satisfies the sim.Household contracts.
//
// Households split their consumption response between a forward-looking
// part, governed by a discounted Euler equation solved backward from the
// terminal steady state, and a hand-to-mouth part that passes income
// changes straight into consumption. Savings follow the budget constraint
// and are mapped onto the asset grid with a lottery, which yields a sparse
// transition kernel combined with the productivity Markov chain.
package household

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hank-transition/hank-transition/sim"
)

// Config holds the household block's own parameters.
type Config struct {
	Productivity []float64   `yaml:"productivity"`  // z levels, len NZ
	Transition   [][]float64 `yaml:"transition"`    // productivity Markov matrix, rows sum to 1
	DivWeights   []float64   `yaml:"div_weights"`   // relative dividend shares, normalized under the stationary distribution
	HandToMouth  []float64   `yaml:"hand_to_mouth"` // share of each productivity state that consumes income changes
	Targets      []float64   `yaml:"targets"`       // steady-state asset targets per productivity state
	Persistence  float64     `yaml:"persistence"`   // asset mean reversion in the steady-state savings rule
	Sigma        float64     `yaml:"sigma"`         // rate sensitivity of the Euler equation
	Discount     float64     `yaml:"discount"`      // Euler discounting; 1 is the undiscounted Euler equation
}

// Validate checks the configuration against the parameter set.
func (c Config) Validate(p *sim.Params) error {
	nz := p.NZ
	for name, v := range map[string][]float64{
		"productivity":  c.Productivity,
		"div_weights":   c.DivWeights,
		"hand_to_mouth": c.HandToMouth,
		"targets":       c.Targets,
	} {
		if len(v) != nz {
			return fmt.Errorf("%s has %d entries, want %d", name, len(v), nz)
		}
	}
	if len(c.Transition) != nz {
		return fmt.Errorf("transition has %d rows, want %d", len(c.Transition), nz)
	}
	for i, row := range c.Transition {
		if len(row) != nz {
			return fmt.Errorf("transition row %d has %d entries, want %d", i, len(row), nz)
		}
		for _, x := range row {
			if x < 0 {
				return fmt.Errorf("transition row %d has a negative probability", i)
			}
		}
		if s := floats.Sum(row); math.Abs(s-1) > 1e-12 {
			return fmt.Errorf("transition row %d sums to %g", i, s)
		}
	}
	for i := 0; i < nz; i++ {
		if !(c.Productivity[i] > 0) {
			return fmt.Errorf("productivity[%d] must be positive, got %g", i, c.Productivity[i])
		}
		if c.HandToMouth[i] < 0 || c.HandToMouth[i] > 1 {
			return fmt.Errorf("hand_to_mouth[%d] must lie in [0,1], got %g", i, c.HandToMouth[i])
		}
		if c.DivWeights[i] < 0 {
			return fmt.Errorf("div_weights[%d] must be non-negative, got %g", i, c.DivWeights[i])
		}
		lo, hi := p.AssetGrid[0], p.AssetGrid[len(p.AssetGrid)-1]
		if c.Targets[i] < lo || c.Targets[i] > hi {
			return fmt.Errorf("targets[%d]=%g outside the asset grid [%g, %g]", i, c.Targets[i], lo, hi)
		}
	}
	if c.Persistence < 0 || c.Persistence >= 1 {
		return fmt.Errorf("persistence must lie in [0,1), got %g", c.Persistence)
	}
	if !(c.Sigma > 0) {
		return fmt.Errorf("sigma must be positive, got %g", c.Sigma)
	}
	if !(c.Discount > 0 && c.Discount <= 1) {
		return fmt.Errorf("discount must lie in (0,1], got %g", c.Discount)
	}
	return nil
}

// Economy is the reference household block anchored at its steady state.
// It implements sim.Household and is read-only after New returns, so one
// Economy may serve concurrent solves.
type Economy struct {
	cfg    Config
	params *sim.Params
	ss     *sim.SteadyState

	pz         *mat.Dense // productivity transition
	divWeights []float64  // normalized so Σ Γ·dw = 1
	laborScale float64    // ℓ̄, steady-state hours per unit of productivity
	income     []float64  // steady-state non-asset income per productivity state
	rbar       float64
}

var _ sim.Household = (*Economy)(nil)

// Params returns the parameter set completed by the steady-state
// normalization (productivity weights and debt level).
func (e *Economy) Params() *sim.Params { return e.params }

// SteadyState returns the block's steady state.
func (e *Economy) SteadyState() *sim.SteadyState { return e.ss }

// labor returns hours per unit of productivity at wage w.
func (e *Economy) labor(w float64) float64 {
	return e.laborScale * math.Pow(w/e.ss.W, 1/e.params.Psi)
}

// nonAssetIncome returns y(z) = w·z·ℓ + div·dw_z − τ·taxWeight_z.
func (e *Economy) nonAssetIncome(iz int, pr sim.Prices) float64 {
	z := e.cfg.Productivity[iz]
	return pr.W*z*e.labor(pr.W) + pr.Div*e.divWeights[iz] - pr.Tau*e.params.TaxWeights[iz]
}
