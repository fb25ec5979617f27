package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// threeStateKernel is a small stochastic kernel with a duplicate entry in row 0.
func threeStateKernel(t *testing.T) *Kernel {
	t.Helper()
	ka := NewKernelAssembler(3)
	ka.Add(0, 1, 0.25)
	ka.Add(0, 0, 0.5)
	ka.Add(0, 1, 0.25)
	ka.Add(1, 2, 1)
	ka.Add(2, 0, 0.1)
	ka.Add(2, 2, 0.9)
	ka.Add(2, 1, 0) // dropped
	k, err := ka.Kernel()
	require.NoError(t, err)
	return k
}

func TestKernelAssembler_SumsDuplicatesAndDropsZeros(t *testing.T) {
	k := threeStateKernel(t)
	assert.Equal(t, 5, k.NNZ())
	assert.Equal(t, 0.5, k.At(0, 1))
	assert.Equal(t, 0.0, k.At(2, 1))
	for i, s := range k.RowSums() {
		assert.InDelta(t, 1, s, 1e-15, "row %d", i)
	}
}

func TestKernelAssembler_RejectsOutOfRangeColumn(t *testing.T) {
	ka := NewKernelAssembler(2)
	ka.Add(0, 2, 1)
	_, err := ka.Kernel()
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestPropagate_MatchesDenseTransposeProduct(t *testing.T) {
	// GIVEN a kernel and a distribution
	k := threeStateKernel(t)
	dist := []float64{0.2, 0.3, 0.5}

	// WHEN propagated through the sparse path and through gonum's dense Kᵀ·d
	got, err := Propagate(dist, k)
	require.NoError(t, err)
	var want mat.VecDense
	want.MulVec(k.T(), mat.NewVecDense(3, dist))

	// THEN the results agree and mass is preserved
	for i := range got {
		assert.InDelta(t, want.AtVec(i), got[i], 1e-15)
	}
	assert.InDelta(t, 1, floats.Sum(got), 1e-15)
	assert.Equal(t, []float64{0.2, 0.3, 0.5}, dist, "input must not be modified")
}

func TestPropagateInto_DimensionMismatch(t *testing.T) {
	k := threeStateKernel(t)
	err := PropagateInto(make([]float64, 3), []float64{1, 0}, k)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestKernel_Dense_RoundTrip(t *testing.T) {
	k := threeStateKernel(t)
	d := mat.DenseCopyOf(k)
	r, c := d.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 0.9, d.At(2, 2))
}

func BenchmarkPropagateInto(b *testing.B) {
	const n = 3 * 500
	ka := NewKernelAssembler(n)
	for i := 0; i < n; i++ {
		ka.Add(i, i, 0.5)
		ka.Add(i, (i+1)%n, 0.5)
	}
	k, err := ka.Kernel()
	if err != nil {
		b.Fatal(err)
	}
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = 1 / float64(n)
	}
	dst := make([]float64, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := PropagateInto(dst, dist, k); err != nil {
			b.Fatal(err)
		}
	}
}
