// Package csvsql runs SQL statements against delimited text files.
//
// Each input file is imported into a table of an embedded SQLite database
// and a script of statements is executed against those tables. The result
// of the last statement is what a run returns.
//
// # Basic Usage
//
//	rs, err := csvsql.Run(ctx, csvsql.Config{
//	    Inputs: []csvsql.Input{{Path: "users.csv"}},
//	    Statements: []csvsql.StatementSource{
//	        csvsql.InlineStatement("SELECT name FROM users WHERE CAST(age AS INTEGER) > 25;"),
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Use Open to keep a Session around and call Import and Exec yourself.
//
// # Table Naming
//
// Table names are derived from file paths:
//   - "users.csv" becomes table "users"
//   - "data.tsv.gz" becomes table "data"
//   - "/path/to/logs.ltsv" becomes table "logs"
//   - "sales.xlsx" with multiple sheets becomes tables "sales_Sheet1", "sales_Sheet2", etc.
//
// Importing a file whose table already exists replaces that table.
//
// # Column Names
//
// With a header row, non-empty header cells are used verbatim as column
// names. Blank cells, rows without a header, and fields beyond the header
// get synthesized names "__COL" followed by the 1-based column position,
// zero-padded to the width of the header (e.g. "__COL02" in a 12 column
// file). Rows shorter than the table are padded with empty strings and
// rows longer than the table add columns. Every column is untyped.
//
// Two header cells that differ only in case or surrounding white space are
// rejected with ErrDuplicateColumnName.
//
// # Statements
//
// Scripts are split without a SQL parser: "--" starts a comment that runs
// to the end of the line, wherever it appears, and ";" ends a statement.
// All statements of a run execute in one transaction that is committed
// after the last one.
//
// For complete SQL syntax documentation, see: https://www.sqlite.org/lang.html
package csvsql
