// Package testutil provides shared test infrastructure for the transition
// solver: a small reference economy and float/path assertion helpers used
// across the sim/ and sim/household/ test packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertPathNear checks every entry of got against the scalar want.
func AssertPathNear(t *testing.T, name string, want float64, got []float64, absTol float64) {
	t.Helper()
	for i, g := range got {
		if math.Abs(g-want) > absTol || math.IsNaN(g) {
			t.Errorf("%s[%d]: got %v, want %v (tol %v)", name, i, g, want, absTol)
			return
		}
	}
}
