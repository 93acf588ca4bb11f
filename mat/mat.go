// Package mat holds small helpers to build gonum matrices from row oriented data
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoRows      = errors.New("no rows in input")
	ErrNoCols      = errors.New("no columns in input")
	ErrColMismatch = errors.New("column size mismatch")
)

// NewDenseFromRows returns a dense matrix with one matrix row per input row. Unlike
// mat.NewDense, empty input is reported as an error instead of a panic.
func NewDenseFromRows(x [][]float64) (*mat.Dense, error) {
	m := len(x)
	if m == 0 {
		return nil, ErrNoRows
	}

	n := len(x[0])
	for i, row := range x {
		if len(row) != n {
			return nil, fmt.Errorf("at row %d expected %d columns but got %d, %w", i, n, len(row), ErrColMismatch)
		}
	}
	if n == 0 {
		return nil, ErrNoCols
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// Broadcast repeats a single row m times. Each output row is an independent copy.
func Broadcast(row []float64, m int) [][]float64 {
	if m <= 0 {
		return nil
	}
	out := make([][]float64, m)
	for i := range out {
		r := make([]float64, len(row))
		copy(r, row)
		out[i] = r
	}
	return out
}
