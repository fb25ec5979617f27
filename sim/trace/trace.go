package trace

// Loop names which fixed-point loop a record belongs to.
type Loop string

const (
	// LoopInner is the wage fixed point.
	LoopInner Loop = "inner"
	// LoopOuter is the price-dispersion fixed point.
	LoopOuter Loop = "outer"
)

// ConvergenceTrace collects per-iteration distances during one transition solve.
// Not safe for concurrent use; each solve owns its own trace.
type ConvergenceTrace struct {
	Inner []InnerRecord
	Outer []OuterRecord
}

// NewConvergenceTrace creates a ConvergenceTrace ready for recording.
func NewConvergenceTrace() *ConvergenceTrace {
	return &ConvergenceTrace{
		Inner: make([]InnerRecord, 0),
		Outer: make([]OuterRecord, 0),
	}
}

// RecordInner appends a wage-loop record.
func (ct *ConvergenceTrace) RecordInner(record InnerRecord) {
	ct.Inner = append(ct.Inner, record)
}

// RecordOuter appends a dispersion-loop record.
func (ct *ConvergenceTrace) RecordOuter(record OuterRecord) {
	ct.Outer = append(ct.Outer, record)
}

// InnerDistances returns the wage distances of one outer iteration in order.
func (ct *ConvergenceTrace) InnerDistances(outer int) []float64 {
	var ds []float64
	for _, r := range ct.Inner {
		if r.Outer == outer {
			ds = append(ds, r.Distance)
		}
	}
	return ds
}

// OuterDistances returns the dispersion distances in order.
func (ct *ConvergenceTrace) OuterDistances() []float64 {
	ds := make([]float64, 0, len(ct.Outer))
	for _, r := range ct.Outer {
		ds = append(ds, r.Distance)
	}
	return ds
}
