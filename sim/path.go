package sim

import (
	"fmt"
	"math"
)

// Path is a macro series over the horizon t = 1..T. Periods 1 and T are the
// steady-state boundary conditions; only periods 2..T-1 can change. Path
// values are snapshots: the With* methods return new Paths and never alias.
type Path struct {
	v []float64
}

// NewPath copies values into a new Path.
func NewPath(values []float64) Path {
	return Path{v: append([]float64(nil), values...)}
}

// ConstantPath returns a Path of length T filled with x.
func ConstantPath(T int, x float64) Path {
	v := make([]float64, T)
	for i := range v {
		v[i] = x
	}
	return Path{v: v}
}

// Len returns T.
func (p Path) Len() int { return len(p.v) }

// At returns the value at 1-indexed period t.
func (p Path) At(t int) float64 { return p.v[t-1] }

// Values returns a copy of the full series.
func (p Path) Values() []float64 { return append([]float64(nil), p.v...) }

// Interior returns a copy of periods 2..T-1.
func (p Path) Interior() []float64 {
	if len(p.v) < 3 {
		return nil
	}
	return append([]float64(nil), p.v[1:len(p.v)-1]...)
}

// Clone returns an independent copy.
func (p Path) Clone() Path { return NewPath(p.v) }

// WithInterior returns a new Path whose interior periods are f(t, old value).
// Boundary periods are carried over unchanged.
func (p Path) WithInterior(f func(t int, x float64) float64) Path {
	out := p.Clone()
	for t := 2; t <= len(out.v)-1; t++ {
		out.v[t-1] = f(t, p.v[t-1])
	}
	return out
}

// SetInterior assigns period t in place. Boundary periods are rejected.
func (p *Path) SetInterior(t int, x float64) error {
	if t < 2 || t > len(p.v)-1 {
		return &DomainError{Field: "period", Value: float64(t), Reason: fmt.Sprintf("only interior periods 2..%d may be updated", len(p.v)-1)}
	}
	p.v[t-1] = x
	return nil
}

// MaxRelDistance returns max over interior t of |next[t]/prev[t] - 1|.
func MaxRelDistance(prev, next Path) float64 {
	d := 0.0
	for t := 2; t <= prev.Len()-1; t++ {
		d = math.Max(d, math.Abs(next.At(t)/prev.At(t)-1))
	}
	return d
}

// PathSet is one iteration's snapshot of the guessed paths.
type PathSet struct {
	W   Path // wage
	Div Path // dividend
	S   Path // price dispersion
}

// Horizon returns T, or an error when the three paths disagree.
func (ps PathSet) Horizon() (int, error) {
	T := ps.W.Len()
	if ps.Div.Len() != T || ps.S.Len() != T {
		return 0, fmt.Errorf("guess paths w=%d div=%d S=%d: %w", ps.W.Len(), ps.Div.Len(), ps.S.Len(), ErrDimensionMismatch)
	}
	return T, nil
}

// PricePaths bundles the price, tax and dividend paths handed to the household block.
type PricePaths struct {
	R   Path
	W   Path
	Tau Path
	Div Path
}

// Prices returns the period-t slice of the paths.
func (pp PricePaths) Prices(t int) Prices {
	return Prices{R: pp.R.At(t), W: pp.W.At(t), Tau: pp.Tau.At(t), Div: pp.Div.At(t)}
}

// Prices is one period's gross rate, wage, tax rate and dividend.
type Prices struct {
	R   float64
	W   float64
	Tau float64
	Div float64
}
