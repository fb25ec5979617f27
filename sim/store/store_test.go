package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hank-transition/hank-transition/sim"
	"github.com/hank-transition/hank-transition/sim/trace"
)

func result(id string, status sim.Status) *sim.Result {
	ct := trace.NewConvergenceTrace()
	ct.RecordInner(trace.InnerRecord{Outer: 1, Inner: 1, Distance: 1e-3})
	ct.RecordOuter(trace.OuterRecord{Outer: 1, Distance: 1e-7, InnerIterations: 1, InnerConverged: true})
	return &sim.Result{
		RunID:           id,
		Horizon:         4,
		Status:          status,
		S:               []float64{1.001, 1},
		W:               []float64{0.84, 0.833},
		Y:               []float64{1.02, 1},
		R:               []float64{0.9975, 1.0025},
		OuterIterations: 1,
		InnerIterations: 1,
		WageDistance:    1e-3,
		Trace:           ct,
	}
}

// backends returns an initialized store of every kind.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	out := map[string]Store{}
	for _, kind := range []string{"memory", "sqlite"} {
		s, err := NewStore(kind, filepath.Join(t.TempDir(), "runs.db"))
		require.NoError(t, err)
		require.NoError(t, s.Init(context.Background()))
		t.Cleanup(func() { _ = CloseIfSupported(s) })
		out[kind] = s
	}
	return out
}

func TestStore_SaveAndGet_RoundTrip(t *testing.T) {
	for kind, s := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			want := result("run-a", sim.StatusConverged)
			require.NoError(t, s.SaveResult(ctx, want))

			got, ok, err := s.GetResult(ctx, "run-a")
			require.NoError(t, err)
			require.True(t, ok)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("stored result differs (-want +got):\n%s", diff)
			}

			_, ok, err = s.GetResult(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_ListRuns_InSaveOrderWithUpsert(t *testing.T) {
	for kind, s := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.SaveResult(ctx, result("b", sim.StatusConverged)))
			require.NoError(t, s.SaveResult(ctx, result("a", sim.StatusCapExhausted)))
			require.NoError(t, s.SaveResult(ctx, result("b", sim.StatusCapExhausted)))

			runs, err := s.ListRuns(ctx)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "b", runs[0].RunID)
			assert.Equal(t, sim.StatusCapExhausted, runs[0].Status)
			assert.Equal(t, "a", runs[1].RunID)
			assert.Equal(t, 4, runs[1].Horizon)
		})
	}
}

func TestStore_RejectsResultWithoutRunID(t *testing.T) {
	for kind, s := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			assert.Error(t, s.SaveResult(context.Background(), result("", sim.StatusConverged)))
		})
	}
}

func TestStore_UseBeforeInit(t *testing.T) {
	ctx := context.Background()
	for _, s := range []Store{NewMemoryStore(), NewSQLiteStore(filepath.Join(t.TempDir(), "x.db"))} {
		assert.ErrorIs(t, s.SaveResult(ctx, result("x", sim.StatusConverged)), ErrNotInitialized)
		_, err := s.ListRuns(ctx)
		assert.ErrorIs(t, err, ErrNotInitialized)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	first := NewSQLiteStore(path)
	require.NoError(t, first.Init(ctx))
	require.NoError(t, first.SaveResult(ctx, result("kept", sim.StatusConverged)))
	require.NoError(t, first.Close())

	second := NewSQLiteStore(path)
	require.NoError(t, second.Init(ctx))
	t.Cleanup(func() { _ = second.Close() })
	got, ok, err := second.GetResult(ctx, "kept")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{1.02, 1}, got.Y)
}

func TestNewStore_Kinds(t *testing.T) {
	s, err := NewStore("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = NewStore("postgres", "")
	assert.Error(t, err)

	assert.Error(t, NewSQLiteStore("").Init(context.Background()))
}
