package trace

// TraceSummary aggregates statistics from a ConvergenceTrace.
type TraceSummary struct {
	OuterIterations    int
	InnerIterations    int // summed over all outer iterations
	MaxInnerPerOuter   int
	FinalWageDistance  float64
	FinalDispersion    float64
	InnerNonIncreasing float64 // share of consecutive inner steps whose distance did not grow
	OuterNonIncreasing float64
}

// Summarize computes aggregate statistics from a ConvergenceTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(ct *ConvergenceTrace) *TraceSummary {
	summary := &TraceSummary{}
	if ct == nil {
		return summary
	}

	summary.OuterIterations = len(ct.Outer)
	summary.InnerIterations = len(ct.Inner)
	for _, r := range ct.Outer {
		if r.InnerIterations > summary.MaxInnerPerOuter {
			summary.MaxInnerPerOuter = r.InnerIterations
		}
	}
	if n := len(ct.Inner); n > 0 {
		summary.FinalWageDistance = ct.Inner[n-1].Distance
	}
	if n := len(ct.Outer); n > 0 {
		summary.FinalDispersion = ct.Outer[n-1].Distance
	}

	var steps, down int
	for i := 1; i < len(ct.Inner); i++ {
		if ct.Inner[i].Outer != ct.Inner[i-1].Outer {
			continue
		}
		steps++
		if ct.Inner[i].Distance <= ct.Inner[i-1].Distance {
			down++
		}
	}
	if steps > 0 {
		summary.InnerNonIncreasing = float64(down) / float64(steps)
	}
	summary.OuterNonIncreasing = nonIncreasingShare(ct.OuterDistances())
	return summary
}

func nonIncreasingShare(ds []float64) float64 {
	if len(ds) < 2 {
		return 0
	}
	down := 0
	for i := 1; i < len(ds); i++ {
		if ds[i] <= ds[i-1] {
			down++
		}
	}
	return float64(down) / float64(len(ds)-1)
}
