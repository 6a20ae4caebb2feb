package math

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is a general rows x cols matrix stored row-major. Its dimensions
// are fixed at construction. Methods never modify the receiver except Set.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix returns a zero rows x cols matrix. Non-positive dimensions panic.
func NewMatrix(rows, cols int) Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("math: invalid matrix size %dx%d", rows, cols))
	}
	return Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// MatrixFromRows builds a matrix from equally sized rows.
func MatrixFromRows(rows ...[]float64) Matrix {
	if len(rows) == 0 {
		panic("math: MatrixFromRows needs at least one row")
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != m.cols {
			panic(fmt.Sprintf("math: row %d has %d columns, want %d", i, len(r), m.cols))
		}
		copy(m.data[i*m.cols:], r)
	}
	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

func (m Matrix) Rows() int { return m.rows }
func (m Matrix) Cols() int { return m.cols }

func (m Matrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("math: index (%d,%d) out of range for %dx%d matrix", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

func (m Matrix) At(row, col int) float64 {
	return m.data[m.index(row, col)]
}

func (m Matrix) Set(row, col int, v float64) {
	m.data[m.index(row, col)] = v
}

// Clone returns a copy that does not share storage with m.
func (m Matrix) Clone() Matrix {
	out := Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	copy(out.data, m.data)
	return out
}

// Mul returns m * other. The inner dimensions must agree.
func (m Matrix) Mul(other Matrix) Matrix {
	if m.cols != other.rows {
		panic(fmt.Sprintf("math: cannot multiply %dx%d by %dx%d", m.rows, m.cols, other.rows, other.cols))
	}
	out := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			var sum float64
			for k := 0; k < m.cols; k++ {
				sum += m.data[i*m.cols+k] * other.data[k*other.cols+j]
			}
			out.data[i*out.cols+j] = sum
		}
	}
	return out
}

// MulVec treats v as a column vector of length Cols and returns a vector of
// length Rows.
func (m Matrix) MulVec(v []float64) []float64 {
	if len(v) != m.cols {
		panic(fmt.Sprintf("math: cannot multiply %dx%d by vector of length %d", m.rows, m.cols, len(v)))
	}
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			out[i] += m.data[i*m.cols+k] * v[k]
		}
	}
	return out
}

// Transpose is defined for square matrices only.
func (m Matrix) Transpose() Matrix {
	if m.rows != m.cols {
		panic(fmt.Sprintf("math: transpose of non-square %dx%d matrix", m.rows, m.cols))
	}
	out := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*out.cols+i] = m.data[i*m.cols+j]
		}
	}
	return out
}

// Inverse uses Gauss-Jordan elimination with partial pivoting. It returns
// false for non-square or singular matrices.
func (m Matrix) Inverse() (Matrix, bool) {
	if m.rows != m.cols {
		return Matrix{}, false
	}
	n := m.rows
	a := m.Clone()
	inv := Identity(n)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a.data[r*n+col]) > math.Abs(a.data[pivot*n+col]) {
				pivot = r
			}
		}
		if math.Abs(a.data[pivot*n+col]) < Epsilon {
			return Matrix{}, false
		}
		a.swapRows(col, pivot)
		inv.swapRows(col, pivot)

		p := a.data[col*n+col]
		for j := 0; j < n; j++ {
			a.data[col*n+j] /= p
			inv.data[col*n+j] /= p
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := a.data[r*n+col]
			if f == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				a.data[r*n+j] -= f * a.data[col*n+j]
				inv.data[r*n+j] -= f * inv.data[col*n+j]
			}
		}
	}
	return inv, true
}

func (m Matrix) swapRows(i, j int) {
	if i == j {
		return
	}
	ri := m.data[i*m.cols : (i+1)*m.cols]
	rj := m.data[j*m.cols : (j+1)*m.cols]
	for k := range ri {
		ri[k], rj[k] = rj[k], ri[k]
	}
}

// Mat4 converts a 4x4 Matrix; other sizes panic.
func (m Matrix) Mat4() Mat4 {
	if m.rows != 4 || m.cols != 4 {
		panic(fmt.Sprintf("math: cannot convert %dx%d matrix to Mat4", m.rows, m.cols))
	}
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m.data[i*4+j]
		}
	}
	return out
}

func (m Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.cols+j])
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
