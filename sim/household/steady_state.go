package household

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hank-transition/hank-transition/sim"
)

const (
	stationaryTol     = 1e-14
	stationaryMaxIter = 200000
)

// New builds the block and its steady state at gross rate rbar.
//
// The steady state is normalized to Y = 1 with the flexible-price wage
// w = 1/μ, so the reset price equals the price level and dispersion is 1.
// Productivity weights are set to the stationary productivity marginal,
// hours are scaled so labor supply equals output, and the debt level is set
// to the stationary mean asset holding so the bond market clears. The
// returned parameter set (Economy.Params) carries these values.
func New(cfg Config, params sim.Params, rbar float64) (*Economy, error) {
	p := params
	p.TaxWeights = append([]float64(nil), params.TaxWeights...)
	p.AssetGrid = append([]float64(nil), params.AssetGrid...)
	if len(p.Gamma) != p.NZ {
		// Placeholder so Validate accepts the set; replaced by the stationary marginal below.
		p.Gamma = make([]float64, p.NZ)
		for i := range p.Gamma {
			p.Gamma[i] = 1 / float64(p.NZ)
		}
	} else {
		p.Gamma = append([]float64(nil), params.Gamma...)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("household parameters: %w", err)
	}
	if err := cfg.Validate(&p); err != nil {
		return nil, fmt.Errorf("household config: %w", err)
	}
	if !(rbar > 0) {
		return nil, fmt.Errorf("steady-state rate must be positive, got %g", rbar)
	}

	pz := mat.NewDense(p.NZ, p.NZ, nil)
	for i, row := range cfg.Transition {
		pz.SetRow(i, row)
	}
	e := &Economy{cfg: cfg, params: &p, pz: pz, rbar: rbar}

	savings := e.steadyStateSavings()
	k, err := e.kernelFromSavings(savings)
	if err != nil {
		return nil, fmt.Errorf("steady-state kernel: %w", err)
	}
	dist, err := stationaryDistribution(k, p.StateCount())
	if err != nil {
		return nil, err
	}

	nk := p.NK
	for iz := 0; iz < p.NZ; iz++ {
		p.Gamma[iz] = floats.Sum(dist[iz*nk : (iz+1)*nk])
	}
	meanZ := floats.Dot(p.Gamma, cfg.Productivity)
	dwMass := floats.Dot(p.Gamma, cfg.DivWeights)
	if !(dwMass > 0) {
		return nil, fmt.Errorf("dividend weights have zero mass under the stationary distribution")
	}
	e.divWeights = make([]float64, p.NZ)
	floats.ScaleTo(e.divWeights, 1/dwMass, cfg.DivWeights)
	e.laborScale = 1 / meanZ
	p.B = floats.Dot(dist, p.ReplicatedAssetGrid())

	ss := &sim.SteadyState{
		W:            1 / p.Mu,
		Y:            1,
		R:            rbar,
		Distribution: dist,
	}
	ss.Div = ss.Y - ss.W*ss.Y
	ss.Tau = p.B * ss.Y / p.WeightedProductivity() * (1 - 1/rbar)
	e.ss = ss

	pr := sim.Prices{R: rbar, W: ss.W, Tau: ss.Tau, Div: ss.Div}
	e.income = make([]float64, p.NZ)
	ss.Policy = make([]float64, p.StateCount())
	for iz := 0; iz < p.NZ; iz++ {
		e.income[iz] = e.nonAssetIncome(iz, pr)
		for ik, a := range p.AssetGrid {
			i := iz*nk + ik
			c := a + e.income[iz] - savings[i]/rbar
			if !(c > 0) {
				return nil, fmt.Errorf("steady-state consumption %g at (z=%d, a=%g) is not positive", c, iz, a)
			}
			ss.Policy[i] = c
		}
	}
	if err := ss.Validate(&p); err != nil {
		return nil, fmt.Errorf("steady state: %w", err)
	}
	logrus.Debugf("household steady state: B=%.6f tau=%.6f labor scale=%.6f", p.B, ss.Tau, e.laborScale)
	return e, nil
}

// steadyStateSavings returns a'(z,a) = ρ·a + (1−ρ)·ā_z for every state.
func (e *Economy) steadyStateSavings() []float64 {
	p := e.params
	rho := e.cfg.Persistence
	out := make([]float64, p.StateCount())
	for iz := 0; iz < p.NZ; iz++ {
		for ik, a := range p.AssetGrid {
			out[iz*p.NK+ik] = rho*a + (1-rho)*e.cfg.Targets[iz]
		}
	}
	return out
}

// stationaryDistribution iterates the kernel from the uniform distribution
// until the largest change falls below stationaryTol.
func stationaryDistribution(k *sim.Kernel, n int) ([]float64, error) {
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = 1 / float64(n)
	}
	next := make([]float64, n)
	for it := 0; it < stationaryMaxIter; it++ {
		if err := sim.PropagateInto(next, dist, k); err != nil {
			return nil, err
		}
		floats.Scale(1/floats.Sum(next), next)
		diff := 0.0
		for i := range next {
			diff = math.Max(diff, math.Abs(next[i]-dist[i]))
		}
		dist, next = next, dist
		if diff < stationaryTol {
			return dist, nil
		}
	}
	return nil, fmt.Errorf("stationary distribution did not converge in %d iterations", stationaryMaxIter)
}
