// Package trace records the convergence history of the transition solver.
// It has no dependencies on sim/ and stores pure data types.
package trace

// InnerRecord captures one wage-loop iteration.
type InnerRecord struct {
	Outer    int     `json:"outer"`
	Inner    int     `json:"inner"`
	Distance float64 `json:"distance"` // max interior |w_new/w_old - 1|
}

// OuterRecord captures one price-dispersion iteration.
type OuterRecord struct {
	Outer           int     `json:"outer"`
	Distance        float64 `json:"distance"` // max interior |S_new/S_old - 1|
	InnerIterations int     `json:"inner_iterations"`
	InnerConverged  bool    `json:"inner_converged"`
}
