package tabular

import (
	"fmt"
	"strings"
)

// Table is a header plus string rows, the in-memory form of every flat file the
// service reads or writes.
type Table struct {
	Header []string
	Rows   [][]string
}

// New creates an empty table with the given header
func New(header ...string) *Table {
	return &Table{Header: append([]string(nil), header...)}
}

// Index returns the position of a column, or -1
func (t *Table) Index(column string) int {
	for i, h := range t.Header {
		if h == column {
			return i
		}
	}
	return -1
}

// Has reports whether the table exposes the column
func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// Missing returns the subset of columns the header lacks, in argument order
func (t *Table) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Cell returns the value at row i for the named column. Short rows yield "".
func (t *Table) Cell(i int, column string) string {
	j := t.Index(column)
	if j < 0 || i < 0 || i >= len(t.Rows) || j >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][j]
}

// Append adds a row, padding or rejecting it to match the header width
func (t *Table) Append(row ...string) error {
	if len(row) > len(t.Header) {
		return fmt.Errorf("row has %d fields, header has %d", len(row), len(t.Header))
	}
	padded := make([]string, len(t.Header))
	copy(padded, row)
	t.Rows = append(t.Rows, padded)
	return nil
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := &Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// normalizeHeader trims header cells and drops a UTF-8 byte order mark
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// fromRows converts raw rows (header first) into a Table
func fromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	t := &Table{Header: normalizeHeader(rows[0])}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		padded := make([]string, len(t.Header))
		for j := 0; j < len(row) && j < len(padded); j++ {
			padded[j] = strings.TrimSpace(row[j])
		}
		t.Rows = append(t.Rows, padded)
	}

	return t, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
