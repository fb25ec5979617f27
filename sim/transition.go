package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/hank-transition/hank-transition/sim/trace"
)

// Solver computes the perfect-foresight transition with a nested fixed
// point: an inner loop on wages that clears the labor market for a given
// price-dispersion path, and an outer loop on the dispersion path itself.
//
// Thread-safety: a Solver holds no per-solve state, but the Household it
// wraps may; share one across goroutines only if the Household allows it.
type Solver struct {
	params *Params
	ss     *SteadyState
	hh     Household
	cfg    SolverConfig
	fwd    *ForwardSimulator
	assets float64 // steady-state aggregate assets
}

// NewSolver validates its inputs and returns a ready Solver.
func NewSolver(p *Params, ss *SteadyState, hh Household, cfg SolverConfig) (*Solver, error) {
	if hh == nil {
		return nil, errors.New("household block is required")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("parameters: %w", err)
	}
	if err := ss.Validate(p); err != nil {
		return nil, fmt.Errorf("steady state: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("solver config: %w", err)
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyWarn
	}
	return &Solver{
		params: p,
		ss:     ss,
		hh:     hh,
		cfg:    cfg,
		fwd:    &ForwardSimulator{Household: hh, Params: p},
		assets: floats.Dot(ss.Distribution, p.ReplicatedAssetGrid()),
	}, nil
}

// TaxPath returns τ[t] = B·Y_ss / (Σ Γ·taxWeight) · (1 − 1/R[t]) for every
// period, the tax rate that finances the debt's interest each period.
func TaxPath(rates Path, ss *SteadyState, p *Params) Path {
	scale := p.B * ss.Y / p.WeightedProductivity()
	v := make([]float64, rates.Len())
	for t := 1; t <= rates.Len(); t++ {
		v[t-1] = scale * (1 - 1/rates.At(t))
	}
	return Path{v: v}
}

// wageOutcome is the state after one or more inner iterations.
type wageOutcome struct {
	input      PathSet // guesses the last iteration simulated
	guess      PathSet // updated W and Div; S as given
	y, l, n, a Path    // simulated from input
	distance   float64
	iterations int
	converged  bool
}

// Solve runs the nested fixed point for the given rate path starting from
// guess. The solve is converged when an outer iteration's wage loop met its
// tolerance and the dispersion path it implies moved by less than STol; an
// inner cap hit in an earlier outer iteration does not count against it.
//
// The returned W, Div and S are the guesses the final forward simulation
// ran on, and Y, L, N and A are that simulation's output, so feeding the
// result back as a guess reproduces the final iteration exactly. Pi comes
// from the final dispersion recursion. Div was set by the previous
// simulation, so the identity div = Y − w·N holds only to the tolerance scale.
//
// Under PolicyWarn the error is nil whenever the computation itself
// succeeded, and Result.Status says whether the solve converged. Under
// PolicyFail a cap-exhausted solve returns the best estimate and a
// *ConvergenceError. Numerical failures abort with no result.
func (s *Solver) Solve(rates Path, guess PathSet) (*Result, error) {
	T, err := guess.Horizon()
	if err != nil {
		return nil, err
	}
	if rates.Len() != T {
		return nil, fmt.Errorf("rate path has %d periods, guesses have %d: %w", rates.Len(), T, ErrDimensionMismatch)
	}
	if T < 3 {
		return nil, &DomainError{Field: "horizon", Value: float64(T), Reason: "need at least one interior period"}
	}
	for t := 1; t <= T; t++ {
		if !(rates.At(t) > 0) {
			return nil, &DomainError{Field: "R", Period: t, Value: rates.At(t), Reason: "gross rate must be positive"}
		}
	}

	taxes := TaxPath(rates, s.ss, s.params)
	ct := trace.NewConvergenceTrace()
	cur := PathSet{W: guess.W.Clone(), Div: guess.Div.Clone(), S: guess.S.Clone()}

	var (
		last      *wageOutcome
		pricing   *PricingPaths
		sDist     = math.Inf(1)
		outer     int
		innerSum  int
		converged bool
	)
	for outer = 1; outer <= s.cfg.MaxOuter; outer++ {
		in, err := s.solveWages(ct, outer, rates, taxes, cur)
		if err != nil {
			return nil, err
		}
		innerSum += in.iterations
		last = in

		pricing, err = PriceDispersion(in.guess.W, in.y, s.ss, s.params)
		if err != nil {
			return nil, fmt.Errorf("outer iteration %d: %w", outer, err)
		}
		sDist = MaxRelDistance(in.input.S, pricing.S)

		ct.RecordOuter(trace.OuterRecord{Outer: outer, Distance: sDist, InnerIterations: in.iterations, InnerConverged: in.converged})
		logrus.Infof("[outer %03d] dispersion distance=%.3e after %d wage iterations", outer, sDist, in.iterations)

		if !in.converged {
			logrus.Warnf("wage loop did not converge in %d iterations at outer %d (distance=%.3e); continuing from best estimate",
				in.iterations, outer, in.distance)
		}
		if in.converged && sDist < s.cfg.STol {
			converged = true
			break
		}
		cur = PathSet{W: in.guess.W, Div: in.guess.Div, S: pricing.S}
	}
	if outer > s.cfg.MaxOuter {
		outer = s.cfg.MaxOuter
	}

	status := StatusConverged
	var convErr error
	if !converged {
		status = StatusCapExhausted
		loop, iterations, distance := trace.LoopOuter, outer, sDist
		if !last.converged {
			loop, iterations, distance = trace.LoopInner, last.iterations, last.distance
		}
		if s.cfg.Policy == PolicyFail {
			convErr = &ConvergenceError{Loop: string(loop), Outer: outer, Iterations: iterations, Distance: distance}
		} else {
			logrus.Warnf("transition did not converge in %d outer iterations (%s loop distance=%.3e); returning best estimate",
				outer, loop, distance)
		}
	}

	final := last.input
	res := &Result{
		RunID:              uuid.NewString(),
		Horizon:            T,
		Status:             status,
		S:                  final.S.Interior(),
		W:                  final.W.Interior(),
		Pi:                 pricing.Pi.Interior(),
		Y:                  last.y.Interior(),
		R:                  rates.Interior(),
		Tau:                taxes.Interior(),
		Div:                final.Div.Interior(),
		L:                  last.l.Interior(),
		N:                  last.n.Interior(),
		A:                  last.a.Interior(),
		OuterIterations:    outer,
		InnerIterations:    innerSum,
		WageDistance:       last.distance,
		DispersionDistance: sDist,
		Trace:              ct,
	}
	return res, convErr
}

// solveWages iterates the wage update until the wage path stops moving or
// the inner cap is reached.
func (s *Solver) solveWages(ct *trace.ConvergenceTrace, outer int, rates, taxes Path, start PathSet) (*wageOutcome, error) {
	cur := start
	var out *wageOutcome
	for inner := 1; inner <= s.cfg.MaxInner; inner++ {
		step, err := s.wageStep(inner, rates, taxes, cur)
		if err != nil {
			return nil, fmt.Errorf("outer %d inner %d: %w", outer, inner, err)
		}
		ct.RecordInner(trace.InnerRecord{Outer: outer, Inner: inner, Distance: step.distance})
		logrus.Debugf("[outer %03d inner %03d] wage distance=%.3e", outer, inner, step.distance)

		out = step
		out.iterations = inner
		cur = step.guess
		if step.distance < s.cfg.WTol {
			out.converged = true
			return out, nil
		}
	}
	return out, nil
}

// wageStep performs one inner iteration and returns a fresh snapshot.
func (s *Solver) wageStep(inner int, rates, taxes Path, cur PathSet) (*wageOutcome, error) {
	p := s.params
	prices := PricePaths{R: rates, W: cur.W, Tau: taxes, Div: cur.Div}

	panel, err := s.hh.SolveBack(s.ss.Policy, prices, p.Beta, p)
	if err != nil {
		return nil, fmt.Errorf("household backward induction: %w", err)
	}
	fp, err := s.fwd.Simulate(s.ss.Distribution, panel, prices, inner)
	if err != nil {
		return nil, err
	}

	y := anchored(fp.Y, s.ss.Y)
	l := anchored(fp.L, s.ss.Y)
	a := anchored(fp.A, s.assets)
	for t := 2; t <= y.Len()-1; t++ {
		if !(l.At(t) > 0) {
			return nil, &DomainError{Field: "L", Period: t, Value: l.At(t), Reason: "aggregate labor supply must be positive"}
		}
	}
	n := y.WithInterior(func(t int, yt float64) float64 { return cur.S.At(t) * yt })

	damp := s.cfg.Damping
	w := cur.W.WithInterior(func(t int, wt float64) float64 {
		target := wt * math.Pow(n.At(t)/l.At(t), p.Psi)
		return damp*target + (1-damp)*wt
	})
	div := cur.Div.WithInterior(func(t int, _ float64) float64 {
		return y.At(t) - w.At(t)*n.At(t)
	})

	return &wageOutcome{
		input:    cur,
		guess:    PathSet{W: w, Div: div, S: cur.S},
		y:        y,
		l:        l,
		n:        n,
		a:        a,
		distance: MaxRelDistance(cur.W, w),
	}, nil
}

// anchored copies a forward-simulation series and fills both boundaries.
func anchored(values []float64, boundary float64) Path {
	v := append([]float64(nil), values...)
	v[0], v[len(v)-1] = boundary, boundary
	return Path{v: v}
}
