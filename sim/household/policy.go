package household

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/hank-transition/hank-transition/sim"
)

// SolveBack computes the consumption policy for every period by backward
// induction from the terminal policy. The forward-looking component scales
// steady-state consumption by κ_t, with κ_T = 1 and
// κ_t = κ_{t+1}^δ · (R_t/R̄)^(−σ); the hand-to-mouth component adds the
// period's income change to steady-state consumption.
//
// The beta argument is not used: this block's Euler discounting is
// Config.Discount (δ above), and β only matters through the steady-state
// rate R̄ the block was built with.
func (e *Economy) SolveBack(terminal []float64, paths sim.PricePaths, _ float64, p *sim.Params) (*sim.PolicyPanel, error) {
	n := p.StateCount()
	if len(terminal) != n {
		return nil, fmt.Errorf("terminal policy has %d states, want %d: %w", len(terminal), n, sim.ErrDimensionMismatch)
	}
	T := paths.R.Len()
	panel := sim.NewPolicyPanel(n, T)
	if err := panel.SetColumn(T, terminal); err != nil {
		return nil, err
	}

	kappa := 1.0
	col := make([]float64, n)
	for t := T - 1; t >= 1; t-- {
		pr := paths.Prices(t)
		kappa = math.Pow(kappa, e.cfg.Discount) * math.Pow(pr.R/e.rbar, -e.cfg.Sigma)
		if math.IsNaN(kappa) || math.IsInf(kappa, 0) {
			return nil, fmt.Errorf("Euler scale at period %d is not finite", t)
		}
		for iz := 0; iz < p.NZ; iz++ {
			lambda := e.cfg.HandToMouth[iz]
			dy := e.nonAssetIncome(iz, pr) - e.income[iz]
			for ik, a := range p.AssetGrid {
				i := iz*p.NK + ik
				cbar := e.ss.Policy[i]
				htm := cbar + dy + (1/e.rbar-1/pr.R)*a
				col[i] = (1-lambda)*kappa*cbar + lambda*htm
			}
		}
		if err := panel.SetColumn(t, col); err != nil {
			return nil, err
		}
	}
	return panel, nil
}

// AggregateConsumptionLabor returns C = Σ D·c and L = Σ D·z·ℓ(w).
func (e *Economy) AggregateConsumptionLabor(dist []float64, policy *mat.Dense, pr sim.Prices, p *sim.Params) (float64, float64, error) {
	if len(dist) != p.StateCount() {
		return 0, 0, fmt.Errorf("distribution has %d states, want %d: %w", len(dist), p.StateCount(), sim.ErrDimensionMismatch)
	}
	hours := e.labor(pr.W)
	var c, l float64
	for iz := 0; iz < p.NZ; iz++ {
		z := e.cfg.Productivity[iz]
		for ik := 0; ik < p.NK; ik++ {
			d := dist[iz*p.NK+ik]
			c += d * policy.At(iz, ik)
			l += d * z * hours
		}
	}
	return c, l, nil
}

// BuildTransitionKernel maps each state to its successors: savings from the
// budget constraint a' = R(a + y − c) are split between the two bracketing
// grid points, then the productivity transition is applied.
func (e *Economy) BuildTransitionKernel(policy *mat.Dense, pr sim.Prices, p *sim.Params) (*sim.Kernel, error) {
	if r, c := policy.Dims(); r != p.NZ || c != p.NK {
		return nil, fmt.Errorf("policy is %dx%d, want %dx%d: %w", r, c, p.NZ, p.NK, sim.ErrDimensionMismatch)
	}
	savings := make([]float64, p.StateCount())
	for iz := 0; iz < p.NZ; iz++ {
		y := e.nonAssetIncome(iz, pr)
		for ik, a := range p.AssetGrid {
			savings[iz*p.NK+ik] = pr.R * (a + y - policy.At(iz, ik))
		}
	}
	return e.kernelFromSavings(savings)
}

// ReshapePolicy views a flat policy column as an NZ x NK matrix.
func (e *Economy) ReshapePolicy(column []float64, p *sim.Params) (*mat.Dense, error) {
	if len(column) != p.StateCount() {
		return nil, fmt.Errorf("policy column has %d states, want %d: %w", len(column), p.StateCount(), sim.ErrDimensionMismatch)
	}
	return mat.NewDense(p.NZ, p.NK, append([]float64(nil), column...)), nil
}

func (e *Economy) kernelFromSavings(savings []float64) (*sim.Kernel, error) {
	p := e.params
	ka := sim.NewKernelAssembler(p.StateCount())
	for iz := 0; iz < p.NZ; iz++ {
		for ik := 0; ik < p.NK; ik++ {
			i := iz*p.NK + ik
			if math.IsNaN(savings[i]) {
				return nil, fmt.Errorf("savings at state %d is NaN", i)
			}
			j, w := lottery(p.AssetGrid, savings[i])
			for jz := 0; jz < p.NZ; jz++ {
				prob := e.pz.At(iz, jz)
				ka.Add(i, jz*p.NK+j, prob*w)
				if j+1 < p.NK {
					ka.Add(i, jz*p.NK+j+1, prob*(1-w))
				}
			}
		}
	}
	return ka.Kernel()
}

// lottery returns the lower bracketing index j and the weight on grid[j]
// such that w·grid[j] + (1−w)·grid[j+1] = a. Points outside the grid are
// clamped to the nearest end.
func lottery(grid []float64, a float64) (int, float64) {
	n := len(grid)
	if n == 1 || a <= grid[0] {
		return 0, 1
	}
	if a >= grid[n-1] {
		return n - 2, 0
	}
	j := sort.SearchFloat64s(grid, a) - 1 // grid[j] < a <= grid[j+1]
	w := (grid[j+1] - a) / (grid[j+1] - grid[j])
	return j, w
}
