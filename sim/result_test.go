package sim

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hank-transition/hank-transition/sim/trace"
)

func sampleResult() *Result {
	ct := trace.NewConvergenceTrace()
	ct.RecordInner(trace.InnerRecord{Outer: 1, Inner: 1, Distance: 0.5})
	ct.RecordOuter(trace.OuterRecord{Outer: 1, Distance: 0.25, InnerIterations: 1, InnerConverged: true})
	return &Result{
		RunID:   "run-1",
		Horizon: 4,
		Status:  StatusConverged,
		S:       []float64{1.01, 1.0},
		W:       []float64{0.9, 0.85},
		Pi:      []float64{1.002, 1.0},
		Y:       []float64{1.05, 1.0},
		R:       []float64{1.0, 1.0025},
		Tau:     []float64{0.001, 0.002},
		Div:     []float64{0.1, 0.15},
		L:       []float64{1.06, 1.0},
		N:       []float64{1.06, 1.0},
		A:       []float64{2, 2},
		Trace:   ct,

		OuterIterations: 1,
		InnerIterations: 1,
		WageDistance:    0.5,
	}
}

func TestResult_JSONRoundTrip(t *testing.T) {
	// GIVEN a result written to disk
	want := sampleResult()
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, want.WriteJSON(path))

	// WHEN it is read back
	got, err := ReadResultJSON(path)
	require.NoError(t, err)

	// THEN nothing is lost
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip changed the result (-want +got):\n%s", diff)
	}
	assert.True(t, got.Converged())
}

func TestReadResultJSON_MissingFile(t *testing.T) {
	_, err := ReadResultJSON(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestResult_WarmStart_RestoresBoundaries(t *testing.T) {
	r := sampleResult()
	ss := &SteadyState{W: 1 / 1.2, Div: 1 - 1/1.2}

	g := r.WarmStart(ss)

	T, err := g.Horizon()
	require.NoError(t, err)
	assert.Equal(t, r.Horizon, T)
	assert.Equal(t, []float64{ss.W, 0.9, 0.85, ss.W}, g.W.Values())
	assert.Equal(t, []float64{ss.Div, 0.1, 0.15, ss.Div}, g.Div.Values())
	assert.Equal(t, []float64{1, 1.01, 1.0, 1}, g.S.Values())
}
