// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

// Row maps a column name to the raw cell value. A column missing from the map
// was absent from the source line.
type Row map[string]string

// Get returns the cell for col and whether the source line carried it.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Value returns the cell for col, or "" if it is absent.
func (r Row) Value(col string) string {
	return r[col]
}

// Table is the parsed form of one delimited file. It is built once by Parse
// and treated as read-only afterwards.
type Table struct {
	Headers []string
	Rows    []Row

	// Skipped counts blank sentinel lines dropped while parsing.
	Skipped int

	columns map[string]int
}

// HasColumn reports whether name is one of the table's headers.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of the first header equal to name, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	if t.columns == nil {
		// Built by hand rather than by Parse.
		for i, h := range t.Headers {
			if h == name {
				return i
			}
		}
		return -1
	}
	if i, ok := t.columns[name]; ok {
		return i
	}
	return -1
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the values of col in row order. Absent cells are returned
// as "".
func (t *Table) Column(col string) []string {
	values := make([]string, 0, t.Len())
	for _, row := range t.Rows {
		values = append(values, row.Value(col))
	}
	return values
}

// index builds the header lookup. Duplicate header names keep the position
// of their first occurrence.
func (t *Table) index() {
	t.columns = make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		if _, dup := t.columns[h]; !dup {
			t.columns[h] = i
		}
	}
}
