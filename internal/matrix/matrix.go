package matrix

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Matrix is an owned n x n matrix stored row-major.
type Matrix struct {
	// Size is the dimension n.
	Size int
	// Data holds the n*n elements row by row.
	Data []int64
}

// New allocates a zeroed n x n matrix.
func New(n int) *Matrix {
	return &Matrix{Size: n, Data: make([]int64, n*n)}
}

// FromRows builds a matrix from a square slice of rows. It panics if the rows
// do not form a square.
func FromRows(rows [][]int64) *Matrix {
	n := len(rows)
	m := New(n)
	for i, r := range rows {
		if len(r) != n {
			panic(fmt.Sprintf("matrix: row %d has %d elements, want %d", i, len(r), n))
		}
		copy(m.Data[i*n:(i+1)*n], r)
	}
	return m
}

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) int64 { return m.Data[i*m.Size+j] }

// Set stores v at row i, column j.
func (m *Matrix) Set(i, j int, v int64) { m.Data[i*m.Size+j] = v }

// View returns a view covering the whole matrix.
func (m *Matrix) View() View {
	return View{data: m.Data, stride: m.Size, size: m.Size}
}

// Bytes returns the storage footprint of an n x n matrix.
func Bytes(n int) uint64 {
	return uint64(n) * uint64(n) * 8
}

// Equal reports whether m and o have the same size and elements.
func (m *Matrix) Equal(o *Matrix) bool {
	_, _, found := FirstDifference(m, o)
	return !found
}

// FirstDifference returns the first position, in row-major order, where a and
// b differ. Matrices of different sizes differ at (0, 0).
func FirstDifference(a, b *Matrix) (row, col int, found bool) {
	if a == nil || b == nil || a.Size != b.Size {
		return 0, 0, a != b
	}
	for k, v := range a.Data {
		if b.Data[k] != v {
			return k / a.Size, k % a.Size, true
		}
	}
	return 0, 0, false
}

// String renders the matrix as space-separated rows.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.Size; i++ {
		for j := 0; j < m.Size; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", m.At(i, j))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FillPattern seeds every element with (i*n + j) % 10 + 1.
func (m *Matrix) FillPattern() {
	n := m.Size
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Data[i*n+j] = int64((i*n+j)%10 + 1)
		}
	}
}

// FillIdentity turns m into the identity matrix.
func (m *Matrix) FillIdentity() {
	clear(m.Data)
	for i := 0; i < m.Size; i++ {
		m.Data[i*m.Size+i] = 1
	}
}

// FillRandom seeds every element with a deterministic pseudo-random value in
// [-bound, bound]. A bound of zero leaves the full int64 range.
func (m *Matrix) FillRandom(seed uint64, bound int64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for k := range m.Data {
		if bound <= 0 {
			m.Data[k] = int64(rng.Uint64())
			continue
		}
		m.Data[k] = rng.Int64N(2*bound+1) - bound
	}
}
