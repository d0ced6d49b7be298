package driver

import (
	"fmt"
	"strings"
)

// MaxColumnCount is the largest number of columns a table may have.
// It matches SQLite's default SQLITE_MAX_COLUMN.
const MaxColumnCount = 2000

// maxLogLength bounds SQL text copied into logs and error messages
const maxLogLength = 200

// ValidateColumnCount checks if the number of columns is within acceptable limits
func ValidateColumnCount(columnCount int) error {
	if columnCount > MaxColumnCount {
		return fmt.Errorf("%w: %d > %d", ErrTooManyColumns, columnCount, MaxColumnCount)
	}
	return nil
}

// QuoteIdentifier returns name as a double-quoted SQL identifier.
// Embedded double quotes are doubled; nothing else is changed.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// SanitizeForLog collapses white space in SQL text and limits its length
// so a statement fits on one log line.
func SanitizeForLog(input string) string {
	result := strings.Join(strings.Fields(input), " ")
	if len(result) > maxLogLength {
		result = result[:maxLogLength] + "..."
	}
	return result
}
