package testutil

import (
	"math"
	"testing"

	"github.com/hank-transition/hank-transition/sim"
	"github.com/hank-transition/hank-transition/sim/household"
)

// QuarterlyRBar is the gross quarterly rate implied by 1% a year.
var QuarterlyRBar = math.Pow(1.01, 0.25)

// SmallParams returns a three-state parameter set on an nk-point grid over [0, 6].
func SmallParams(nk int) sim.Params {
	grid := make([]float64, nk)
	for i := range grid {
		grid[i] = 6 * float64(i) / float64(nk-1)
	}
	return sim.Params{
		NK:         nk,
		NZ:         3,
		NB:         nk,
		Beta:       0.99,
		Psi:        2,
		Theta:      0.15,
		Mu:         1.2,
		TaxWeights: []float64{0.6, 1.0, 1.4},
		AssetGrid:  grid,
	}
}

// SmallHouseholdConfig returns a household block matching SmallParams.
func SmallHouseholdConfig() household.Config {
	return household.Config{
		Productivity: []float64{0.6, 1.0, 1.4},
		Transition: [][]float64{
			{0.90, 0.08, 0.02},
			{0.05, 0.90, 0.05},
			{0.02, 0.08, 0.90},
		},
		DivWeights:  []float64{0.6, 1.0, 1.4},
		HandToMouth: []float64{0.5, 0.25, 0.1},
		Targets:     []float64{0.5, 1.5, 3.0},
		Persistence: 0.8,
		Sigma:       1,
		Discount:    0.97,
	}
}

// SmallEconomy builds the reference economy on a 15-point grid at QuarterlyRBar.
func SmallEconomy(t testing.TB) *household.Economy {
	t.Helper()
	e, err := household.New(SmallHouseholdConfig(), SmallParams(15), QuarterlyRBar)
	if err != nil {
		t.Fatalf("build reference economy: %v", err)
	}
	return e
}
