// Package sim computes perfect-foresight transition paths for a
// heterogeneous-agent New Keynesian economy after a pre-announced change in
// the policy rate.
//
// # Reading Guide
//
// Start with these three files to understand the solver:
//   - transition.go: the nested fixed point (outer loop on price dispersion S,
//     inner loop on wages w) and the tax path
//   - forward.go: forward simulation of the household distribution and the
//     aggregates Y, L and A it implies
//   - pricing.go: the Calvo reset-price recursion producing inflation and S
//
// # Architecture
//
// The sim package defines the model types and the household contracts;
// implementations live in sub-packages:
//   - sim/household/: reference household block (policy, aggregation, kernel)
//   - sim/trace/: per-iteration convergence distances
//   - sim/store/: result persistence (memory, SQLite)
//
// # Key Interfaces
//
// The household block is the only extension point. It is split into small
// interfaces combined by Household:
//   - HouseholdSolver: backward induction of the consumption policy
//   - Aggregator: aggregate consumption and labor supply for one period
//   - KernelBuilder: sparse state-to-state transition kernel for one period
//   - PolicyReshaper: flat policy column to (productivity x asset) matrix
//
// Periods are 1-indexed as in the model: 1 and T are the steady-state
// boundaries, 2..T-1 the interior that the solver updates.
package sim
