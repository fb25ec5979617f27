package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PolicyPanel is the household consumption policy for every state and
// period, stored one flat column per period (state ordering iz*NK + ik).
type PolicyPanel struct {
	states int
	cols   [][]float64 // cols[t-1] is period t
}

// NewPolicyPanel allocates a zeroed panel.
func NewPolicyPanel(states, T int) *PolicyPanel {
	cols := make([][]float64, T)
	for i := range cols {
		cols[i] = make([]float64, states)
	}
	return &PolicyPanel{states: states, cols: cols}
}

// Dims returns (states, T).
func (pp *PolicyPanel) Dims() (int, int) { return pp.states, len(pp.cols) }

// Column returns period t's policy. The slice is owned by the panel.
func (pp *PolicyPanel) Column(t int) []float64 { return pp.cols[t-1] }

// SetColumn copies a period-t policy into the panel.
func (pp *PolicyPanel) SetColumn(t int, c []float64) error {
	if len(c) != pp.states {
		return fmt.Errorf("policy column for period %d has %d states, want %d: %w", t, len(c), pp.states, ErrDimensionMismatch)
	}
	copy(pp.cols[t-1], c)
	return nil
}

// HouseholdSolver runs backward induction over the full horizon from the
// terminal (steady-state) policy.
type HouseholdSolver interface {
	SolveBack(terminal []float64, paths PricePaths, beta float64, p *Params) (*PolicyPanel, error)
}

// Aggregator returns aggregate consumption and labor supply for one period.
type Aggregator interface {
	AggregateConsumptionLabor(dist []float64, policy *mat.Dense, pr Prices, p *Params) (c, l float64, err error)
}

// KernelBuilder constructs the period transition kernel from a policy and prices.
type KernelBuilder interface {
	BuildTransitionKernel(policy *mat.Dense, pr Prices, p *Params) (*Kernel, error)
}

// PolicyReshaper maps a flat policy column to its NZ x NK structured form.
type PolicyReshaper interface {
	ReshapePolicy(column []float64, p *Params) (*mat.Dense, error)
}

// Household bundles the external collaborators the solver needs.
type Household interface {
	HouseholdSolver
	Aggregator
	KernelBuilder
	PolicyReshaper
}
