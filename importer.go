package csvsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/csvsql/domain/model"
	"github.com/nao1215/csvsql/driver"
)

// DefaultProgressInterval is how many rows are inserted between progress log lines
const DefaultProgressInterval = 10000

// ImportTable loads every row of source into the table tableName.
//
// With model.HeaderModeWithHeader the first row names the columns; blank
// names are synthesized. With model.HeaderModeWithoutHeader every column
// name is synthesized from the width of the first row, which is then
// inserted as data. An existing table with the same name is dropped first.
// Rows wider than the schema add columns; narrower rows are padded with
// empty strings. The whole import runs in one transaction.
func ImportTable(ctx context.Context, db *sql.DB, source RowSource, tableName string, mode model.HeaderMode) error {
	return newTableImporter(0).importTable(ctx, db, source, tableName, mode, "")
}

// tableImporter loads row sources into tables.
type tableImporter struct {
	progressInterval int
}

// newTableImporter creates an importer that logs progress every
// progressInterval rows. A non-positive interval selects DefaultProgressInterval.
func newTableImporter(progressInterval int) *tableImporter {
	if progressInterval <= 0 {
		progressInterval = DefaultProgressInterval
	}
	return &tableImporter{progressInterval: progressInterval}
}

// importTable wraps every failure with the table name, and with filePath
// when the rows come from a file.
func (ti *tableImporter) importTable(ctx context.Context, db *sql.DB, source RowSource, tableName string, mode model.HeaderMode, filePath string) error {
	if err := ti.load(ctx, db, source, tableName, mode); err != nil {
		return NewErrorContext("import", filePath).WithTable(tableName).Error(err)
	}
	return nil
}

func (ti *tableImporter) load(ctx context.Context, db *sql.DB, source RowSource, tableName string, mode model.HeaderMode) (err error) {
	logger := LoggerFrom(ctx)

	first, err := source.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyData
		}
		return err
	}

	namer := newColumnNamer(len(first))
	var (
		columns model.Header
		pending model.Record
	)
	switch mode {
	case model.HeaderModeWithoutHeader:
		columns = make(model.Header, 0, len(first))
		for range first {
			columns = append(columns, namer.next())
		}
		pending = first
	default:
		if columns, err = namer.header(model.NewHeader(first)); err != nil {
			return err
		}
	}
	if len(columns) == 0 {
		return ErrEmptyData
	}
	if err := driver.ValidateColumnCount(len(columns)); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() // Ignore rollback error since we're already returning an error
		}
	}()

	if err := createTable(ctx, tx, tableName, columns); err != nil {
		return err
	}

	ins := &inserter{tx: tx, table: tableName, width: len(columns)}
	defer func() { _ = ins.close() }()
	if err := ins.prepare(ctx); err != nil {
		return err
	}

	named, _ := source.(namedSource)
	rows, appended := 0, 0
	insert := func(row model.Record) error {
		for len(row) > ins.width {
			if err := driver.ValidateColumnCount(ins.width + 1); err != nil {
				return err
			}
			raw := ""
			if named != nil {
				if cols := named.Columns(); ins.width < len(cols) {
					raw = cols[ins.width]
				}
			}
			if raw != "" && namer.isTaken(raw) {
				return fmt.Errorf("%w: %s", ErrDuplicateColumnName, raw)
			}
			name := namer.normalize(raw)
			if err := ins.addColumn(ctx, name); err != nil {
				return err
			}
			appended++
			logger.Debug("added column", "table", tableName, "column", name, "width", ins.width)
		}
		if err := ins.insert(ctx, row.Pad(ins.width)); err != nil {
			return err
		}
		rows++
		if rows%ti.progressInterval == 0 {
			logger.Debug("import progress", "table", tableName, "rows", rows)
		}
		return nil
	}

	if pending != nil {
		if err := insert(pending); err != nil {
			return err
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := source.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := insert(row); err != nil {
			return err
		}
	}

	if err := ins.close(); err != nil {
		return fmt.Errorf("failed to close insert statement: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	logger.Info("imported table",
		"table", tableName,
		"rows", rows,
		"columns", ins.width,
		"appended_columns", appended)
	return nil
}

// createTable drops tableName if it exists and creates it with untyped columns.
func createTable(ctx context.Context, tx *sql.Tx, tableName string, columns model.Header) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+driver.QuoteIdentifier(tableName)); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = driver.QuoteIdentifier(col)
	}
	query := fmt.Sprintf("CREATE TABLE %s (%s)", driver.QuoteIdentifier(tableName), strings.Join(quoted, ", "))
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// inserter owns the prepared INSERT statement for the current schema width.
type inserter struct {
	tx    *sql.Tx
	table string
	width int
	stmt  *sql.Stmt
}

func (in *inserter) prepare(ctx context.Context) error {
	placeholders := make([]string, in.width)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	query := fmt.Sprintf("INSERT INTO %s VALUES (%s)", driver.QuoteIdentifier(in.table), strings.Join(placeholders, ", "))

	stmt, err := in.tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	in.stmt = stmt
	return nil
}

// addColumn appends one column and re-prepares the insert for the new width.
// Rows inserted before the column existed read it as an empty string.
func (in *inserter) addColumn(ctx context.Context, name string) error {
	if err := in.close(); err != nil {
		return fmt.Errorf("failed to close insert statement: %w", err)
	}
	query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s DEFAULT ''", driver.QuoteIdentifier(in.table), driver.QuoteIdentifier(name))
	if _, err := in.tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to add column %s: %w", name, err)
	}
	in.width++
	return in.prepare(ctx)
}

func (in *inserter) insert(ctx context.Context, row model.Record) error {
	values := make([]any, len(row))
	for i, value := range row {
		values[i] = value
	}
	if _, err := in.stmt.ExecContext(ctx, values...); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (in *inserter) close() error {
	if in.stmt == nil {
		return nil
	}
	err := in.stmt.Close()
	in.stmt = nil
	return err
}
