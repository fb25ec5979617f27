package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Params is the read-only parameter set shared by the solver and the
// household block. It is constructed upstream and never mutated here.
type Params struct {
	NK int // asset grid points
	NZ int // productivity states
	NB int // distribution grid points; must equal NK (policies and distribution share the asset grid)

	Beta  float64 // discount factor
	Psi   float64 // labor supply elasticity exponent used in the wage update
	Theta float64 // Calvo reset probability
	Mu    float64 // gross markup

	B          float64   // government debt as a multiple of steady-state output
	TaxWeights []float64 // per productivity state, len NZ
	Gamma      []float64 // productivity weights, len NZ

	AssetGrid []float64 // strictly increasing, len NK
}

// StateCount returns the size of the discretized (productivity x asset) state space.
func (p *Params) StateCount() int {
	return p.NZ * p.NK
}

// WeightedProductivity returns Σ Γ_z · taxWeight_z, the tax base per unit of the tax rate.
func (p *Params) WeightedProductivity() float64 {
	return floats.Dot(p.Gamma, p.TaxWeights)
}

// ReplicatedAssetGrid returns the asset grid repeated once per productivity block,
// aligned with the state ordering iz*NK + ik.
func (p *Params) ReplicatedAssetGrid() []float64 {
	out := make([]float64, 0, p.StateCount())
	for iz := 0; iz < p.NZ; iz++ {
		out = append(out, p.AssetGrid...)
	}
	return out
}

// Validate rejects parameter sets that would drive the pricing recursion or
// the forward simulation out of their domain. Returns a *DomainError.
func (p *Params) Validate() error {
	sizes := []struct {
		name string
		v    int
	}{{"nk", p.NK}, {"nz", p.NZ}, {"nb", p.NB}}
	for _, s := range sizes {
		if s.v <= 0 {
			return &DomainError{Field: s.name, Value: float64(s.v), Reason: "size must be a positive integer"}
		}
	}
	if p.NB != p.NK {
		return &DomainError{Field: "nb", Value: float64(p.NB), Reason: fmt.Sprintf("distribution grid must match the asset grid (nk=%d)", p.NK)}
	}
	if !(p.Theta > 0 && p.Theta < 1) {
		return &DomainError{Field: "theta", Value: p.Theta, Reason: "Calvo reset probability must lie in (0,1)"}
	}
	if !(p.Mu > 1) || math.IsInf(p.Mu, 0) {
		return &DomainError{Field: "mu", Value: p.Mu, Reason: "markup must be finite and greater than 1"}
	}
	if !(p.Beta > 0 && p.Beta < 1) {
		return &DomainError{Field: "beta", Value: p.Beta, Reason: "discount factor must lie in (0,1)"}
	}
	if !(p.Psi > 0) || math.IsInf(p.Psi, 0) {
		return &DomainError{Field: "psi", Value: p.Psi, Reason: "labor supply elasticity must be finite and positive"}
	}
	if p.B < 0 || math.IsNaN(p.B) {
		return &DomainError{Field: "B", Value: p.B, Reason: "debt level must be non-negative"}
	}
	if len(p.TaxWeights) != p.NZ {
		return &DomainError{Field: "tax_weights", Value: float64(len(p.TaxWeights)), Reason: fmt.Sprintf("need %d entries", p.NZ)}
	}
	if len(p.Gamma) != p.NZ {
		return &DomainError{Field: "gamma", Value: float64(len(p.Gamma)), Reason: fmt.Sprintf("need %d entries", p.NZ)}
	}
	for i, g := range p.Gamma {
		if g < 0 || math.IsNaN(g) {
			return &DomainError{Field: fmt.Sprintf("gamma[%d]", i), Value: g, Reason: "productivity weight must be non-negative"}
		}
	}
	if wp := p.WeightedProductivity(); !(wp > 0) {
		return &DomainError{Field: "weighted_productivity", Value: wp, Reason: "tax base must be positive"}
	}
	if len(p.AssetGrid) != p.NK {
		return &DomainError{Field: "asset_grid", Value: float64(len(p.AssetGrid)), Reason: fmt.Sprintf("need %d points", p.NK)}
	}
	for i := 1; i < len(p.AssetGrid); i++ {
		if !(p.AssetGrid[i] > p.AssetGrid[i-1]) {
			return &DomainError{Field: fmt.Sprintf("asset_grid[%d]", i), Value: p.AssetGrid[i], Reason: "grid must be strictly increasing"}
		}
	}
	return nil
}
