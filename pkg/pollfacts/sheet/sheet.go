// Package sheet provides the cleaned, column-named row sequence the extraction engine reads.
package sheet

import (
	"math"
	"strconv"
	"strings"
)

// Row is a single worksheet row keyed by column name.
type Row struct {
	// R is the source row number in the workbook (1-based).
	R int `json:"r"`
	// C maps column name to cell text. Empty cells are absent.
	C map[string]string `json:"c"`
}

// Sheet is an ordered, 0-indexed sequence of rows sharing one set of column names.
type Sheet struct {
	name    string
	columns []string
	index   map[string]struct{}
	rows    []Row
}

// New creates a Sheet from already-normalized rows.
func New(name string, columns []string, rows []Row) *Sheet {
	idx := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		idx[c] = struct{}{}
	}
	return &Sheet{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   idx,
		rows:    rows,
	}
}

// FromRecords builds a Sheet from positional records aligned with columns.
// Record i is reported as source row i+2 (row 1 holds the column names).
func FromRecords(name string, columns []string, records [][]string) *Sheet {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		cells := make(map[string]string, len(rec))
		for j, v := range rec {
			if j >= len(columns) || v == "" {
				continue
			}
			cells[columns[j]] = v
		}
		rows = append(rows, Row{R: i + 2, C: cells})
	}
	return New(name, columns, rows)
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Len returns the number of rows.
func (s *Sheet) Len() int {
	return len(s.rows)
}

// Columns returns the column names in source order.
func (s *Sheet) Columns() []string {
	return append([]string(nil), s.columns...)
}

// HasColumn reports whether col is one of the sheet's columns.
func (s *Sheet) HasColumn(col string) bool {
	_, ok := s.index[col]
	return ok
}

// Row returns row i, or an empty Row when i is out of range.
func (s *Sheet) Row(i int) Row {
	if i < 0 || i >= len(s.rows) {
		return Row{}
	}
	return s.rows[i]
}

// Text returns the text of column col in row i.
// ok is false for out-of-range rows and absent or empty cells.
func (s *Sheet) Text(i int, col string) (string, bool) {
	if i < 0 || i >= len(s.rows) {
		return "", false
	}
	v, ok := s.rows[i].C[col]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Number returns column col of row i parsed as a finite number.
// Blank, textual and non-finite cells report ok == false.
func (s *Sheet) Number(i int, col string) (float64, bool) {
	v, ok := s.Text(i, col)
	if !ok {
		return 0, false
	}
	return ParseNumber(v)
}

// Values returns the non-empty cell values of row i in column order.
func (s *Sheet) Values(i int) []string {
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	var out []string
	for _, c := range s.columns {
		if v, ok := s.rows[i].C[c]; ok && v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseNumber parses a cell value as a finite float64.
// Integers are tried first so large counts keep their exact value.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
