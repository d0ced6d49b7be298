package model

import (
	"fmt"
	"strings"
)

// Header is the ordered list of column names of a table.
type Header []string

// NewHeader create new Header.
func NewHeader(h []string) Header {
	return Header(h)
}

// Equal compare Header.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Validate reports the first column name that appears twice.
// SQLite compares identifiers case-insensitively, so "Name" and "name" collide.
func (h Header) Validate() error {
	seen := make(map[string]bool, len(h))
	for _, col := range h {
		key := ColumnKey(col)
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumnName, col)
		}
		seen[key] = true
	}
	return nil
}

// ColumnKey returns the identity used to compare column names.
func ColumnKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Record is one row of field values.
type Record []string

// NewRecord create new Record.
func NewRecord(r []string) Record {
	return Record(r)
}

// Equal compare Record.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// Pad returns the record right-padded with empty strings up to width.
// A record that is already width or wider is returned unchanged.
func (r Record) Pad(width int) Record {
	if len(r) >= width {
		return r
	}
	padded := make(Record, width)
	copy(padded, r)
	return padded
}

// HeaderMode selects whether the first row of an input names the columns.
type HeaderMode int

const (
	// HeaderModeWithHeader consumes the first row as column names
	HeaderModeWithHeader HeaderMode = iota
	// HeaderModeWithoutHeader treats the first row as data
	HeaderModeWithoutHeader
)

// String returns the string representation of HeaderMode
func (m HeaderMode) String() string {
	switch m {
	case HeaderModeWithHeader:
		return "with-header"
	case HeaderModeWithoutHeader:
		return "without-header"
	default:
		return "unknown"
	}
}
