package cmd

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/hank-transition/hank-transition/sim"
	"github.com/hank-transition/hank-transition/sim/trace"
)

// peakDeviation returns the period (2..T-1) and signed value of the largest
// absolute deviation of interior series from level.
func peakDeviation(series []float64, level float64) (int, float64) {
	period, dev := 0, 0.0
	for i, x := range series {
		if d := x - level; math.Abs(d) > math.Abs(dev) {
			period, dev = i+2, d
		}
	}
	return period, dev
}

// normalizedOutput is steady-state output under the household block's
// normalization; stored results do not carry their steady state.
const normalizedOutput = 1.0

// printSummary writes the convergence status, headline responses and the
// interior paths as a table.
func printSummary(w io.Writer, res *sim.Result, yss float64, elapsed time.Duration) {
	s := trace.Summarize(res.Trace)
	fmt.Fprintf(w, "=== Transition %s ===\n", res.RunID)
	fmt.Fprintf(w, "Status             : %s\n", res.Status)
	fmt.Fprintf(w, "Outer iterations   : %d (dispersion distance %.3e)\n", res.OuterIterations, res.DispersionDistance)
	fmt.Fprintf(w, "Inner iterations   : %d (max %d per outer, wage distance %.3e)\n", res.InnerIterations, s.MaxInnerPerOuter, res.WageDistance)
	if elapsed > 0 {
		fmt.Fprintf(w, "Solve time         : %s\n", elapsed.Round(time.Millisecond))
	}
	if p, d := peakDeviation(res.Y, yss); p > 0 {
		fmt.Fprintf(w, "Peak output gap    : %+.4f%% at t=%d\n", 100*d/yss, p)
	}
	if p, d := peakDeviation(res.Pi, 1); p > 0 {
		fmt.Fprintf(w, "Peak inflation     : %+.4f%% at t=%d\n", 100*d, p)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "t\tR\tw\tY\tpi\tS\tdiv\ttau\t")
	for i := range res.Y {
		fmt.Fprintf(tw, "%d\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t\n",
			i+2, res.R[i], res.W[i], res.Y[i], res.Pi[i], res.S[i], res.Div[i], res.Tau[i])
	}
	_ = tw.Flush()
}
