package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Kernel is a square sparse stochastic matrix in compressed-row form.
// Row i holds the probabilities of moving from state i to each successor state.
// Kernel satisfies mat.Matrix so it can be densified or combined with gonum routines.
type Kernel struct {
	n      int
	rowPtr []int
	cols   []int
	vals   []float64
}

var _ mat.Matrix = (*Kernel)(nil)

// Dims returns (n, n).
func (k *Kernel) Dims() (int, int) { return k.n, k.n }

// At returns entry (i, j).
func (k *Kernel) At(i, j int) float64 {
	if i < 0 || i >= k.n || j < 0 || j >= k.n {
		panic(mat.ErrIndexOutOfRange)
	}
	row := k.cols[k.rowPtr[i]:k.rowPtr[i+1]]
	idx := sort.SearchInts(row, j)
	if idx < len(row) && row[idx] == j {
		return k.vals[k.rowPtr[i]+idx]
	}
	return 0
}

// T returns the implicit transpose.
func (k *Kernel) T() mat.Matrix { return mat.Transpose{Matrix: k} }

// NNZ returns the number of stored entries.
func (k *Kernel) NNZ() int { return len(k.vals) }

// RowSums returns Σ_j K[i,j] for every row.
func (k *Kernel) RowSums() []float64 {
	sums := make([]float64, k.n)
	for i := 0; i < k.n; i++ {
		for p := k.rowPtr[i]; p < k.rowPtr[i+1]; p++ {
			sums[i] += k.vals[p]
		}
	}
	return sums
}

// KernelAssembler collects (row, col, value) triplets and compresses them
// into a Kernel. Duplicate coordinates are summed.
type KernelAssembler struct {
	n    int
	rows [][]kernelEntry
}

type kernelEntry struct {
	col int
	val float64
}

// NewKernelAssembler starts an n x n kernel.
func NewKernelAssembler(n int) *KernelAssembler {
	return &KernelAssembler{n: n, rows: make([][]kernelEntry, n)}
}

// Add accumulates v at (i, j). Zero values are dropped.
func (a *KernelAssembler) Add(i, j int, v float64) {
	if v == 0 {
		return
	}
	a.rows[i] = append(a.rows[i], kernelEntry{col: j, val: v})
}

// Kernel compresses the collected entries.
func (a *KernelAssembler) Kernel() (*Kernel, error) {
	k := &Kernel{n: a.n, rowPtr: make([]int, a.n+1)}
	for i, row := range a.rows {
		sort.Slice(row, func(x, y int) bool { return row[x].col < row[y].col })
		for _, e := range row {
			if e.col < 0 || e.col >= a.n {
				return nil, fmt.Errorf("kernel entry (%d,%d) outside %dx%d: %w", i, e.col, a.n, a.n, ErrDimensionMismatch)
			}
			last := len(k.cols) - 1
			if last >= k.rowPtr[i] && k.cols[last] == e.col {
				k.vals[last] += e.val
				continue
			}
			k.cols = append(k.cols, e.col)
			k.vals = append(k.vals, e.val)
		}
		k.rowPtr[i+1] = len(k.cols)
	}
	return k, nil
}

// Propagate returns Kᵀ·dist, the next-period distribution.
func Propagate(dist []float64, k *Kernel) ([]float64, error) {
	next := make([]float64, len(dist))
	if err := PropagateInto(next, dist, k); err != nil {
		return nil, err
	}
	return next, nil
}

// PropagateInto writes Kᵀ·dist into dst without allocating. dst and dist must not alias.
func PropagateInto(dst, dist []float64, k *Kernel) error {
	if len(dist) != k.n || len(dst) != k.n {
		return fmt.Errorf("propagate %d-state distribution into %d through %dx%d kernel: %w", len(dist), len(dst), k.n, k.n, ErrDimensionMismatch)
	}
	for j := range dst {
		dst[j] = 0
	}
	for i, mass := range dist {
		if mass == 0 {
			continue
		}
		for p := k.rowPtr[i]; p < k.rowPtr[i+1]; p++ {
			dst[k.cols[p]] += mass * k.vals[p]
		}
	}
	return nil
}
