package model

import "fmt"

// ResultSet is the outcome of one statement. Columns is nil when the
// statement produced no column metadata (DDL, DML).
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// NewResultSet creates a ResultSet from column names and rows.
func NewResultSet(columns []string, rows [][]any) ResultSet {
	return ResultSet{Columns: columns, Rows: rows}
}

// IsEmpty reports whether the statement produced no column metadata.
func (rs ResultSet) IsEmpty() bool {
	return len(rs.Columns) == 0
}

// Len returns the number of data rows.
func (rs ResultSet) Len() int {
	return len(rs.Rows)
}

// Tuples returns the header tuple followed by every row, or nil for an
// empty result set.
func (rs ResultSet) Tuples() [][]any {
	if rs.IsEmpty() {
		return nil
	}
	tuples := make([][]any, 0, len(rs.Rows)+1)
	header := make([]any, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	tuples = append(tuples, header)
	return append(tuples, rs.Rows...)
}

// Records renders every row as strings. NULL becomes the empty string.
func (rs ResultSet) Records() []Record {
	records := make([]Record, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		record := make(Record, len(row))
		for i, v := range row {
			record[i] = FormatValue(v)
		}
		records = append(records, record)
	}
	return records
}

// FormatValue renders a value returned by the engine as text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
