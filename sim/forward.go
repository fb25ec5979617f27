package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DistributionTolerance bounds |Σ D - 1| after every propagation.
const DistributionTolerance = 1e-6

// ForwardPaths is the outcome of one forward simulation pass. Y, L and A have
// length T; only interior periods 2..T-1 are populated.
type ForwardPaths struct {
	Y []float64 // output = aggregate consumption
	L []float64 // aggregate labor supply
	A []float64 // assets carried out of period t: <D[t+1], replicated grid>

	dists [][]float64 // dists[t-2] is the distribution in period t, t = 2..T
}

// Distribution returns the distribution in period t (2 <= t <= T).
func (fp *ForwardPaths) Distribution(t int) []float64 {
	return fp.dists[t-2]
}

// ForwardSimulator drives the household aggregator and the distribution
// propagator across the interior periods.
type ForwardSimulator struct {
	Household Household
	Params    *Params
}

// Simulate runs t = 2..T-1 from the initial distribution. iteration is only
// used to label a DistributionError.
func (f *ForwardSimulator) Simulate(initial []float64, panel *PolicyPanel, prices PricePaths, iteration int) (*ForwardPaths, error) {
	p := f.Params
	n := p.StateCount()
	T := prices.R.Len()
	if len(initial) != n {
		return nil, fmt.Errorf("initial distribution has %d states, want %d: %w", len(initial), n, ErrDimensionMismatch)
	}
	if states, periods := panel.Dims(); states != n || periods != T {
		return nil, fmt.Errorf("policy panel is %dx%d, want %dx%d: %w", states, periods, n, T, ErrDimensionMismatch)
	}

	grid := p.ReplicatedAssetGrid()
	out := &ForwardPaths{
		Y:     make([]float64, T),
		L:     make([]float64, T),
		A:     make([]float64, T),
		dists: make([][]float64, 0, T-1),
	}
	dist := append([]float64(nil), initial...)
	out.dists = append(out.dists, dist)

	for t := 2; t <= T-1; t++ {
		policy, err := f.Household.ReshapePolicy(panel.Column(t), p)
		if err != nil {
			return nil, fmt.Errorf("reshape policy at period %d: %w", t, err)
		}
		pr := prices.Prices(t)
		c, l, err := f.Household.AggregateConsumptionLabor(dist, policy, pr, p)
		if err != nil {
			return nil, fmt.Errorf("aggregate period %d: %w", t, err)
		}
		out.Y[t-1], out.L[t-1] = c, l

		k, err := f.Household.BuildTransitionKernel(policy, pr, p)
		if err != nil {
			return nil, fmt.Errorf("transition kernel at period %d: %w", t, err)
		}
		next, err := Propagate(dist, k)
		if err != nil {
			return nil, fmt.Errorf("propagate period %d: %w", t, err)
		}
		if mass := floats.Sum(next); math.Abs(mass-1) > DistributionTolerance || math.IsNaN(mass) {
			return nil, &DistributionError{Period: t, Iteration: iteration, Mass: mass}
		}
		out.A[t-1] = floats.Dot(next, grid)
		out.dists = append(out.dists, next)
		dist = next
	}
	return out, nil
}
