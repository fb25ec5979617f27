// Package store persists transition results keyed by run ID.
package store

import (
	"context"
	"errors"

	"github.com/hank-transition/hank-transition/sim"
)

// ErrNotInitialized is returned by backends used before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// RunSummary is the listing view of a stored result.
type RunSummary struct {
	RunID           string
	Horizon         int
	Status          sim.Status
	OuterIterations int
	InnerIterations int
}

// Store saves and loads transition results.
type Store interface {
	Init(ctx context.Context) error
	SaveResult(ctx context.Context, res *sim.Result) error
	GetResult(ctx context.Context, runID string) (*sim.Result, bool, error)
	// ListRuns returns summaries in the order runs were first saved.
	ListRuns(ctx context.Context) ([]RunSummary, error)
}

func summarize(res *sim.Result) RunSummary {
	return RunSummary{
		RunID:           res.RunID,
		Horizon:         res.Horizon,
		Status:          res.Status,
		OuterIterations: res.OuterIterations,
		InnerIterations: res.InnerIterations,
	}
}
