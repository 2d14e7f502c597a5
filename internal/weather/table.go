package weather

import (
	"fmt"
	"time"

	"solarcast/internal/types"
)

// Table is a time-indexed, column-oriented block of weather data. Column
// order is significant and preserved from the order variables were requested.
// Every column holds exactly one value per timestamp.
type Table struct {
	times   []time.Time
	columns []string
	values  map[string][]float64
}

// NewTable builds a Table from parallel slices. Every column in columns must
// be present in values with the same length as times.
func NewTable(times []time.Time, columns []string, values map[string][]float64) (*Table, error) {
	for _, col := range columns {
		vals, ok := values[col]
		if !ok {
			return nil, types.NewAppError(types.ErrCodeUpstreamMalformed,
				fmt.Sprintf("missing values for column %q", col), nil)
		}
		if len(vals) != len(times) {
			return nil, types.NewAppError(types.ErrCodeUpstreamMalformed,
				fmt.Sprintf("column %q has %d values for %d timestamps", col, len(vals), len(times)), nil)
		}
	}
	return &Table{times: times, columns: columns, values: values}, nil
}

// NumRows returns the number of timestamps in the table.
func (t *Table) NumRows() int {
	return len(t.times)
}

// NumCols returns the number of data columns, excluding the time index.
func (t *Table) NumCols() int {
	return len(t.columns)
}

// Times returns the table's time index.
func (t *Table) Times() []time.Time {
	return t.times
}

// Columns returns the ordered column names.
func (t *Table) Columns() []string {
	return t.columns
}

// Column returns the values for the named column, or false if absent.
func (t *Table) Column(name string) ([]float64, bool) {
	vals, ok := t.values[name]
	return vals, ok
}

// Value returns the value at the given row for the named column.
func (t *Table) Value(row int, name string) (float64, bool) {
	vals, ok := t.values[name]
	if !ok || row < 0 || row >= len(vals) {
		return 0, false
	}
	return vals[row], true
}

// Row returns the values of a single row in column order.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.columns))
	for j, col := range t.columns {
		row[j] = t.values[col][i]
	}
	return row
}
