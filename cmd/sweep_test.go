package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hank-transition/hank-transition/sim"
)

func smallCalibration(t *testing.T) *Calibration {
	t.Helper()
	cal, err := loadCalibration("../calibration.yaml")
	require.NoError(t, err)
	cal.Params.NK = 12
	cal.Shock.Horizon = 30
	cal.Shock.Period = 6
	return cal
}

func TestRunSweep_ResultsInInputOrder(t *testing.T) {
	// GIVEN a small economy and three shock sizes
	cal := smallCalibration(t)
	e, err := buildEconomy(cal)
	require.NoError(t, err)
	sizes := []float64{-0.005, 0, 0.0025}

	// WHEN swept with two workers
	rows, err := runSweep(context.Background(), cal.Shock.ShockSpec(), sizes, 2,
		e.Params(), e.SteadyState(), e, cal.Solver.SolverConfig())
	require.NoError(t, err)

	// THEN each row belongs to its size and carries its own run
	require.Len(t, rows, 3)
	ids := map[string]bool{}
	for i, r := range rows {
		assert.Equal(t, sizes[i], r.Size)
		require.NotNil(t, r.Result)
		assert.True(t, r.Result.Converged(), "size %g", r.Size)
		assert.Equal(t, cal.Shock.RBar+sizes[i], r.Result.R[cal.Shock.Period-2])
		ids[r.Result.RunID] = true
	}
	assert.Len(t, ids, 3)

	// AND a cut raises output while a hike lowers it
	_, cut := peakDeviation(rows[0].Result.Y, 1)
	_, zero := peakDeviation(rows[1].Result.Y, 1)
	_, hike := peakDeviation(rows[2].Result.Y, 1)
	assert.Greater(t, cut, 0.0)
	assert.InDelta(t, 0, zero, 1e-9)
	assert.Less(t, hike, 0.0)

	var buf bytes.Buffer
	printSweep(&buf, rows, 1)
	assert.Contains(t, buf.String(), rows[2].Result.RunID)
}

func TestRunSweep_FirstErrorWins(t *testing.T) {
	cal := smallCalibration(t)
	e, err := buildEconomy(cal)
	require.NoError(t, err)

	// A size that makes the gross rate negative fails validation.
	_, err = runSweep(context.Background(), cal.Shock.ShockSpec(), []float64{-0.001, -5}, 1,
		e.Params(), e.SteadyState(), e, cal.Solver.SolverConfig())
	assert.Error(t, err)
}

func TestPrintSummary_ReportsStatusAndPaths(t *testing.T) {
	res := &sim.Result{
		RunID: "run-x", Status: sim.StatusConverged,
		R: []float64{1, 1}, W: []float64{0.84, 0.83}, Y: []float64{1.01, 1},
		Pi: []float64{1.001, 1}, S: []float64{1, 1}, Div: []float64{0.16, 0.17}, Tau: []float64{0, 0},
	}
	var buf bytes.Buffer
	printSummary(&buf, res, 1, time.Second)

	out := buf.String()
	assert.Contains(t, out, "run-x")
	assert.Contains(t, out, "converged")
	assert.Contains(t, out, "at t=2")
	assert.Contains(t, out, "0.840000")
}

func TestPeakDeviation(t *testing.T) {
	p, d := peakDeviation([]float64{1.01, 0.97, 1.02}, 1)
	assert.Equal(t, 3, p)
	assert.InDelta(t, -0.03, d, 1e-15)

	p, _ = peakDeviation([]float64{1, 1}, 1)
	assert.Equal(t, 0, p)
}
