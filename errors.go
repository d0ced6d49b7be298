package csvsql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/csvsql/domain/model"
	"github.com/nao1215/csvsql/driver"
)

// Standard error messages and error creation functions for consistency
var (
	// ErrEmptyData indicates that the data source contains no records
	ErrEmptyData = errors.New("csvsql: empty data source")

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("csvsql: unsupported file format")

	// ErrFileNotFound indicates file not found
	ErrFileNotFound = errors.New("csvsql: file not found")

	// ErrNoStatements indicates that there is nothing to execute
	ErrNoStatements = errors.New("csvsql: nothing to do, no statements given")

	// ErrStatementFailed indicates that the engine rejected a statement
	ErrStatementFailed = errors.New("csvsql: statement failed")

	// ErrOutputExists indicates that the output file is already present and overwriting was not requested
	ErrOutputExists = errors.New("csvsql: output file already exists, remove it or use --force")

	// ErrUnsupportedCompression indicates a compression type that cannot be used in the requested direction
	ErrUnsupportedCompression = errors.New("csvsql: unsupported compression type")

	// ErrDuplicateColumnName is returned when a header names the same column twice
	ErrDuplicateColumnName = model.ErrDuplicateColumnName
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("csvsql: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}

	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}

// StatementError reports which statement of a batch the engine rejected.
// errors.Is(err, ErrStatementFailed) holds for every StatementError and
// Unwrap returns the engine error.
type StatementError struct {
	// Index is the zero-based position of the statement in the batch
	Index int
	// Statement is the statement text as sent to the engine
	Statement string
	// Err is the engine error
	Err error
}

// Error implements error
func (e *StatementError) Error() string {
	return fmt.Sprintf("csvsql: statement #%d failed: %s: %v", e.Index+1, driver.SanitizeForLog(e.Statement), e.Err)
}

// Unwrap returns the engine error
func (e *StatementError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStatementFailed
func (e *StatementError) Is(target error) bool {
	return target == ErrStatementFailed
}
