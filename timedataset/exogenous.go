package timedataset

import (
	"errors"
	"fmt"
	"time"

	mat_ "github.com/electrotech/salesforecaster/mat"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoColumns       = errors.New("no columns in exogenous table")
	ErrDuplicateColumn = errors.New("duplicate exogenous column")
	ErrUnknownColumn   = errors.New("unknown exogenous column")
	ErrRowOutOfBounds  = errors.New("row is out of bounds")
)

// ExogenousTable is a time indexed matrix of explanatory variables. Rows follow the time
// index and columns follow the column order given at construction.
type ExogenousTable struct {
	T       []time.Time
	columns []string
	colIdx  map[string]int
	rows    [][]float64
}

// NewExogenousTable creates a zero filled table with one row per time point
func NewExogenousTable(t []time.Time, columns []string) (*ExogenousTable, error) {
	if len(t) == 0 {
		return nil, ErrNoObservations
	}
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	colIdx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, exists := colIdx[c]; exists {
			return nil, fmt.Errorf("%s, %w", c, ErrDuplicateColumn)
		}
		colIdx[c] = i
	}

	tSeries := make([]time.Time, len(t))
	copy(tSeries, t)
	cols := make([]string, len(columns))
	copy(cols, columns)

	return &ExogenousTable{
		T:       tSeries,
		columns: cols,
		colIdx:  colIdx,
		rows:    mat_.Broadcast(make([]float64, len(cols)), len(tSeries)),
	}, nil
}

// Broadcast writes the same values into every row. Keys that are not table columns are
// ignored and returned in the dropped slice so callers can report them.
func (e *ExogenousTable) Broadcast(values map[string]float64) (dropped []string) {
	for name, val := range values {
		j, exists := e.colIdx[name]
		if !exists {
			dropped = append(dropped, name)
			continue
		}
		for i := range e.rows {
			e.rows[i][j] = val
		}
	}
	return dropped
}

// Set assigns a single cell
func (e *ExogenousTable) Set(row int, column string, val float64) error {
	if row < 0 || row >= len(e.rows) {
		return fmt.Errorf("row %d of %d, %w", row, len(e.rows), ErrRowOutOfBounds)
	}
	j, exists := e.colIdx[column]
	if !exists {
		return fmt.Errorf("%s, %w", column, ErrUnknownColumn)
	}
	e.rows[row][j] = val
	return nil
}

// Columns returns a copy of the column names in table order
func (e *ExogenousTable) Columns() []string {
	if e == nil {
		return nil
	}
	cols := make([]string, len(e.columns))
	copy(cols, e.columns)
	return cols
}

// Len returns the number of rows
func (e *ExogenousTable) Len() int {
	if e == nil {
		return 0
	}
	return len(e.rows)
}

// Width returns the number of columns
func (e *ExogenousTable) Width() int {
	if e == nil {
		return 0
	}
	return len(e.columns)
}

// Column returns a copy of the values of a single column
func (e *ExogenousTable) Column(name string) ([]float64, bool) {
	if e == nil {
		return nil, false
	}
	j, exists := e.colIdx[name]
	if !exists {
		return nil, false
	}
	out := make([]float64, len(e.rows))
	for i, row := range e.rows {
		out[i] = row[j]
	}
	return out, true
}

// Row returns a copy of a single row
func (e *ExogenousTable) Row(i int) ([]float64, error) {
	if e == nil || i < 0 || i >= len(e.rows) {
		return nil, fmt.Errorf("row %d, %w", i, ErrRowOutOfBounds)
	}
	out := make([]float64, len(e.rows[i]))
	copy(out, e.rows[i])
	return out, nil
}

// Matrix returns the table as a rows x columns dense matrix
func (e *ExogenousTable) Matrix() (*mat.Dense, error) {
	if e == nil {
		return nil, ErrNoObservations
	}
	return mat_.NewDenseFromRows(e.rows)
}
