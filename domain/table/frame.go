package table

import (
	"math"
	"strconv"
	"strings"

	apperrors "github.com/lilyle-2211/game-analytics-dashboard/internal/errors"
)

// Frame is a rectangular, column-named table of float cells, the only data
// shape the statistical core consumes. Missing columns are genuinely absent
// (lookups report !ok, never a zero column) and empty cells are NaN.
type Frame struct {
	columns []string
	index   map[string]int
	cells   [][]float64
}

// FromRecords builds a Frame from a header row plus string records, the raw
// shape both the CSV and Excel readers produce. Blank and unparseable cells
// become NaN; ragged rows are padded with NaN so the frame stays rectangular.
func FromRecords(header []string, records [][]string) (*Frame, error) {
	if len(header) == 0 {
		return nil, apperrors.InvalidParameter("table requires a header row")
	}
	index := make(map[string]int, len(header))
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, apperrors.InvalidParameter("column %d has an empty name", i)
		}
		if _, dup := index[name]; dup {
			return nil, apperrors.InvalidParameter("duplicate column name %q", name)
		}
		columns[i] = name
		index[name] = i
	}

	cells := make([][]float64, len(records))
	for r, record := range records {
		row := make([]float64, len(columns))
		for c := range row {
			row[c] = math.NaN()
			if c < len(record) {
				if v, ok := parseCell(record[c]); ok {
					row[c] = v
				}
			}
		}
		cells[r] = row
	}
	return &Frame{columns: columns, index: index, cells: cells}, nil
}

func parseCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NumRows returns the row count.
func (f *Frame) NumRows() int {
	return len(f.cells)
}

// Columns returns the column names in declaration order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns a copy of the named column. The second return is false when
// the column does not exist; callers must treat that as absent data, not zero.
func (f *Frame) Column(name string) ([]float64, bool) {
	idx, ok := f.index[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(f.cells))
	for r, row := range f.cells {
		out[r] = row[idx]
	}
	return out, true
}

// Value returns a single cell. ok is false for an unknown column, an
// out-of-range row, or a null (NaN) cell.
func (f *Frame) Value(row int, name string) (float64, bool) {
	idx, ok := f.index[name]
	if !ok || row < 0 || row >= len(f.cells) {
		return 0, false
	}
	v := f.cells[row][idx]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
