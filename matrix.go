package kin

import "fmt"

// Matrix is a small dense row-major matrix. Constraints report accumulated
// impulses through it: a joint with one degree of constraint returns a 1x1.
type Matrix struct {
	Rows, Cols int

	cells []float64
}

func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprint("non-positive matrix dimensions ", rows, "x", cols))
	}
	return &Matrix{Rows: rows, Cols: cols, cells: make([]float64, rows*cols)}
}

func (m *Matrix) At(row, col int) float64 {
	return m.cells[row*m.Cols+col]
}

func (m *Matrix) Set(row, col int, value float64) {
	m.cells[row*m.Cols+col] = value
}

func (m *Matrix) Zero() {
	for i := range m.cells {
		m.cells[i] = 0
	}
}

func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix %dx%d %v", m.Rows, m.Cols, m.cells)
}
