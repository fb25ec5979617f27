package sim_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hank-transition/hank-transition/sim"
	"github.com/hank-transition/hank-transition/sim/household"
	"github.com/hank-transition/hank-transition/sim/internal/testutil"
)

// leakyHousehold drops 10% of the mass in every transition.
type leakyHousehold struct {
	*household.Economy
}

func (h leakyHousehold) BuildTransitionKernel(_ *mat.Dense, _ sim.Prices, p *sim.Params) (*sim.Kernel, error) {
	ka := sim.NewKernelAssembler(p.StateCount())
	for i := 0; i < p.StateCount(); i++ {
		ka.Add(i, i, 0.9)
	}
	return ka.Kernel()
}

func steadyStatePrices(T int, ss *sim.SteadyState) sim.PricePaths {
	return sim.PricePaths{
		R:   sim.ConstantPath(T, ss.R),
		W:   sim.ConstantPath(T, ss.W),
		Tau: sim.ConstantPath(T, ss.Tau),
		Div: sim.ConstantPath(T, ss.Div),
	}
}

func TestForwardSimulator_SteadyState_PreservesMassAndAggregates(t *testing.T) {
	// GIVEN the reference economy at its steady state
	e := testutil.SmallEconomy(t)
	p, ss := e.Params(), e.SteadyState()
	const T = 12
	prices := steadyStatePrices(T, ss)
	panel, err := e.SolveBack(ss.Policy, prices, p.Beta, p)
	require.NoError(t, err)

	// WHEN simulated forward
	fwd := &sim.ForwardSimulator{Household: e, Params: p}
	out, err := fwd.Simulate(ss.Distribution, panel, prices, 1)
	require.NoError(t, err)

	// THEN every distribution is a probability mass and aggregates sit at the steady state
	for period := 2; period <= T; period++ {
		d := out.Distribution(period)
		assert.InDelta(t, 1, floats.Sum(d), 1e-12, "mass at period %d", period)
		assert.GreaterOrEqual(t, floats.Min(d), 0.0)
	}
	for period := 2; period <= T-1; period++ {
		assert.InDelta(t, ss.Y, out.Y[period-1], 1e-10, "Y[%d]", period)
		assert.InDelta(t, ss.Y, out.L[period-1], 1e-10, "L[%d]", period)
		assert.InDelta(t, p.B, out.A[period-1], 1e-10, "A[%d]", period)
	}
	assert.Equal(t, 0.0, out.Y[0], "boundary periods are not simulated")
	assert.Equal(t, 0.0, out.Y[T-1], "boundary periods are not simulated")
}

func TestForwardSimulator_PointMass_StaysProbability(t *testing.T) {
	// GIVEN all households starting with zero assets in the middle productivity state
	e := testutil.SmallEconomy(t)
	p, ss := e.Params(), e.SteadyState()
	const T = 30
	prices := steadyStatePrices(T, ss)
	panel, err := e.SolveBack(ss.Policy, prices, p.Beta, p)
	require.NoError(t, err)
	initial := make([]float64, p.StateCount())
	initial[p.NK] = 1

	// WHEN simulated forward
	fwd := &sim.ForwardSimulator{Household: e, Params: p}
	out, err := fwd.Simulate(initial, panel, prices, 1)
	require.NoError(t, err)

	// THEN mass is conserved and assets build up towards the stationary level
	for period := 2; period <= T; period++ {
		assert.InDelta(t, 1, floats.Sum(out.Distribution(period)), 1e-12)
	}
	assert.Less(t, out.A[1], out.A[T-2])
	assert.Less(t, math.Abs(out.A[T-2]-p.B), math.Abs(out.A[1]-p.B))
}

func TestForwardSimulator_LeakingKernel_IsFatal(t *testing.T) {
	// GIVEN a household whose kernel loses mass
	e := testutil.SmallEconomy(t)
	p, ss := e.Params(), e.SteadyState()
	const T = 6
	prices := steadyStatePrices(T, ss)
	panel, err := e.SolveBack(ss.Policy, prices, p.Beta, p)
	require.NoError(t, err)

	// WHEN simulated forward
	fwd := &sim.ForwardSimulator{Household: leakyHousehold{e}, Params: p}
	_, err = fwd.Simulate(ss.Distribution, panel, prices, 4)

	// THEN the first propagation aborts with the failing period and iteration
	var de *sim.DistributionError
	require.True(t, errors.As(err, &de), "expected DistributionError, got %v", err)
	assert.Equal(t, 2, de.Period)
	assert.Equal(t, 4, de.Iteration)
	assert.InDelta(t, 0.9, de.Mass, 1e-12)
}

func TestForwardSimulator_DimensionMismatch(t *testing.T) {
	e := testutil.SmallEconomy(t)
	p, ss := e.Params(), e.SteadyState()
	prices := steadyStatePrices(5, ss)
	panel := sim.NewPolicyPanel(p.StateCount(), 4)

	fwd := &sim.ForwardSimulator{Household: e, Params: p}
	_, err := fwd.Simulate(ss.Distribution, panel, prices, 1)
	assert.ErrorIs(t, err, sim.ErrDimensionMismatch)
}
