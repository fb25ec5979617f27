package sim

import "math"

// PricingPaths holds the Calvo recursion output. Boundary periods sit at the
// zero-inflation steady state (S = Π = p* = 1).
type PricingPaths struct {
	S     Path // price dispersion
	Pi    Path // gross inflation
	PStar Path // optimal reset price relative to the price level
}

// PriceDispersion runs the Calvo pricing recursion: backward for the reset
// price and inflation, then forward for dispersion starting from S = 1.
// A non-positive base under a fractional power yields a *DomainError naming the period.
func PriceDispersion(w, y Path, ss *SteadyState, p *Params) (*PricingPaths, error) {
	T := w.Len()
	if y.Len() != T {
		return nil, &DomainError{Field: "output_path_length", Value: float64(y.Len()), Reason: "output and wage paths must share the horizon"}
	}
	mu, theta := p.Mu, p.Theta
	disc := p.Beta * (1 - theta)
	epsA := mu / (mu - 1) // demand elasticity
	epsB := 1 / (mu - 1)

	pbarA := make([]float64, T)
	pbarB := make([]float64, T)
	pi := make([]float64, T)
	pstar := make([]float64, T)
	pbarA[T-1] = mu * ss.W * ss.Y / (1 - disc)
	pbarB[T-1] = ss.Y / (1 - disc)
	pi[0], pi[T-1] = 1, 1
	pstar[0], pstar[T-1] = 1, 1

	for t := T - 1; t >= 2; t-- {
		next := pi[t] // Π[t+1]
		pbarA[t-1] = mu*w.At(t+1)*y.At(t) + disc*math.Pow(next, epsA)*pbarA[t]
		pbarB[t-1] = y.At(t) + disc*math.Pow(next, epsB)*pbarB[t]
		if !(pbarA[t-1] > 0) || !(pbarB[t-1] > 0) {
			return nil, &DomainError{Field: "pbar", Period: t, Value: math.Min(pbarA[t-1], pbarB[t-1]), Reason: "present-value terms must be positive"}
		}
		ps := pbarA[t-1] / pbarB[t-1]
		base := 1 - theta*math.Pow(ps, 1/(1-mu))
		if !(base > 0) {
			return nil, &DomainError{Field: "inflation_base", Period: t, Value: base, Reason: "reset price too low for a positive price index"}
		}
		pstar[t-1] = ps
		pi[t-1] = math.Pow((1-theta)/base, 1-mu)
	}

	s := make([]float64, T)
	s[0], s[T-1] = 1, 1
	for t := 2; t <= T-1; t++ {
		s[t-1] = (1-theta)*s[t-2]*math.Pow(pi[t-1], epsA) + theta*math.Pow(pstar[t-1], mu/(1-mu))
		if !(s[t-1] > 0) || math.IsInf(s[t-1], 0) {
			return nil, &DomainError{Field: "S", Period: t, Value: s[t-1], Reason: "price dispersion must be positive and finite"}
		}
	}
	return &PricingPaths{S: Path{v: s}, Pi: Path{v: pi}, PStar: Path{v: pstar}}, nil
}
