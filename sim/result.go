package sim

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hank-transition/hank-transition/sim/trace"
)

// Status reports whether both loops met their tolerances.
type Status string

const (
	StatusConverged    Status = "converged"
	StatusCapExhausted Status = "cap-exhausted"
)

// Result is the converged (or best-estimate) transition path. All path
// fields cover the interior periods 2..T-1 only; index 0 is period 2.
type Result struct {
	RunID   string `json:"run_id"`
	Horizon int    `json:"horizon"`
	Status  Status `json:"status"`

	S   []float64 `json:"S"`
	W   []float64 `json:"w"`
	Pi  []float64 `json:"pi"`
	Y   []float64 `json:"Y"`
	R   []float64 `json:"R"`
	Tau []float64 `json:"tau"`
	Div []float64 `json:"div"`
	L   []float64 `json:"L"`
	N   []float64 `json:"N"`
	A   []float64 `json:"A"`

	OuterIterations    int     `json:"outer_iterations"`
	InnerIterations    int     `json:"inner_iterations"`
	WageDistance       float64 `json:"wage_distance"`
	DispersionDistance float64 `json:"dispersion_distance"`

	Trace *trace.ConvergenceTrace `json:"trace,omitempty"`
}

// Converged reports whether the solve met both tolerances.
func (r *Result) Converged() bool { return r.Status == StatusConverged }

// WarmStart rebuilds full-length guess paths from the result, with the
// steady state at both boundaries, for a second solve of the same rate path.
func (r *Result) WarmStart(ss *SteadyState) PathSet {
	full := func(interior []float64, boundary float64) Path {
		v := make([]float64, 0, len(interior)+2)
		v = append(v, boundary)
		v = append(v, interior...)
		v = append(v, boundary)
		return Path{v: v}
	}
	return PathSet{
		W:   full(r.W, ss.W),
		Div: full(r.Div, ss.Div),
		S:   full(r.S, 1),
	}
}

// WriteJSON writes the result to path.
func (r *Result) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result %s: %w", r.RunID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result %q: %w", path, err)
	}
	return nil
}

// ReadResultJSON loads a result written by WriteJSON.
func ReadResultJSON(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result %q: %w", path, err)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse result %q: %w", path, err)
	}
	return &r, nil
}
