package csvsql

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/csvsql/domain/model"
	csvsqldriver "github.com/nao1215/csvsql/driver"
)

// Type aliases from model package
type (
	// ResultSet is the outcome of one statement
	ResultSet = model.ResultSet
	// HeaderMode selects whether the first row of an input names the columns
	HeaderMode = model.HeaderMode
	// OutputFormat represents the format used to write a result set
	OutputFormat = model.OutputFormat
	// CompressionType represents the compression type
	CompressionType = model.CompressionType
)

// Re-export constants for easier use
const (
	// HeaderModeWithHeader consumes the first row as column names
	HeaderModeWithHeader = model.HeaderModeWithHeader
	// HeaderModeWithoutHeader treats the first row as data
	HeaderModeWithoutHeader = model.HeaderModeWithoutHeader

	// OutputFormatCSV represents CSV output format
	OutputFormatCSV = model.OutputFormatCSV
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV = model.OutputFormatTSV
	// OutputFormatTable represents a boxed text table
	OutputFormatTable = model.OutputFormatTable
	// OutputFormatJSON represents a JSON array of objects
	OutputFormatJSON = model.OutputFormatJSON
	// OutputFormatMarkdown represents a markdown table
	OutputFormatMarkdown = model.OutputFormatMarkdown

	// CompressionNone represents no compression
	CompressionNone = model.CompressionNone
	// CompressionGZ represents gzip compression
	CompressionGZ = model.CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2 = model.CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ = model.CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD = model.CompressionZSTD
)

// Config describes one csvsql run.
type Config struct {
	// Inputs are imported in order. Repeated inputs are imported once.
	Inputs []Input
	// Statements are expanded in order into the statement batch
	Statements []StatementSource
	// OutputPath receives the last result. Empty means the writer passed to Execute.
	OutputPath string
	// DatabasePath is a SQLite file used as storage. Empty means in-memory.
	DatabasePath string
	// Force allows OutputPath to be overwritten
	Force bool
	// Format of the written result
	Format OutputFormat
	// Compression of the output file. CompressionNone defers to the OutputPath extension.
	Compression CompressionType
	// Dialect overrides the delimiter conventions of CSV and TSV inputs
	Dialect *Dialect
	// Sniff guesses the delimiter of CSV and TSV inputs
	Sniff bool
	// ListTables replaces the result with the list of tables after the run.
	// Statements are optional when it is set.
	ListTables bool
	// ProgressInterval is how many rows pass between import progress log lines
	ProgressInterval int
	// Logger receives progress logs. Nil discards them.
	Logger *slog.Logger
}

// Run imports the inputs, executes the statements and returns the result
// set of the last statement.
//
// Statements are collected before the database is opened, so a run with
// nothing to execute fails with ErrNoStatements without touching any file.
func Run(ctx context.Context, cfg Config) (ResultSet, error) {
	ctx = WithLogger(ctx, cfg.Logger)

	if err := newValidator().validateConfig(&cfg); err != nil {
		return ResultSet{}, err
	}

	var statements []string
	if len(cfg.Statements) > 0 || !cfg.ListTables {
		var err error
		if statements, err = CollectStatements(cfg.Statements); err != nil {
			return ResultSet{}, err
		}
	}

	session, err := Open(ctx, cfg.DatabasePath)
	if err != nil {
		return ResultSet{}, err
	}
	defer func() { _ = session.Close() }()

	session.Options = ImportOptions{
		Dialect:          cfg.Dialect,
		Sniff:            cfg.Sniff,
		ProgressInterval: cfg.ProgressInterval,
	}
	if err := session.Import(ctx, dedupInputs(cfg.Inputs)...); err != nil {
		return ResultSet{}, err
	}

	var last ResultSet
	if len(statements) > 0 {
		results, err := session.Exec(ctx, statements)
		if err != nil {
			return ResultSet{}, err
		}
		last = LastResult(results)
	}

	if cfg.ListTables {
		names, err := session.Tables(ctx)
		if err != nil {
			return ResultSet{}, err
		}
		rows := make([][]any, 0, len(names))
		for _, name := range names {
			rows = append(rows, []any{name})
		}
		last = model.NewResultSet([]string{"table"}, rows)
	}

	if err := session.Close(); err != nil {
		return ResultSet{}, err
	}
	return last, nil
}

// Execute runs cfg and writes the last result set to cfg.OutputPath, or to
// w when no output path is set.
func Execute(ctx context.Context, cfg Config, w io.Writer) (err error) {
	rs, err := Run(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.OutputPath == "" {
		return WriteResult(w, rs, cfg.Format)
	}

	out, closer, err := OpenOutput(cfg.OutputPath, cfg.Compression)
	if err != nil {
		return NewErrorContext("write output", cfg.OutputPath).Error(err)
	}
	defer func() {
		if closeErr := closer(); closeErr != nil && err == nil {
			err = NewErrorContext("write output", cfg.OutputPath).Error(closeErr)
		}
	}()

	if err := WriteResult(out, rs, cfg.Format); err != nil {
		return NewErrorContext("write output", cfg.OutputPath).Error(err)
	}
	return nil
}

// Session is an open database that inputs are imported into and
// statements are executed against.
type Session struct {
	// Options apply to every Import call
	Options ImportOptions

	db     *sql.DB
	closed bool
}

// Open opens the database at path. An empty path opens an in-memory
// database; an existing file must pass SQLite's integrity check.
func Open(ctx context.Context, path string) (*Session, error) {
	db, err := csvsqldriver.Open(ctx, path)
	if err != nil {
		return nil, NewErrorContext("open database", path).Error(err)
	}
	return &Session{db: db}, nil
}

// DB returns the underlying database handle
func (s *Session) DB() *sql.DB {
	return s.db
}

// Import imports inputs in order. Each input is committed on its own.
func (s *Session) Import(ctx context.Context, inputs ...Input) error {
	for _, in := range inputs {
		if err := ImportFile(ctx, s.db, in, s.Options); err != nil {
			return err
		}
	}
	return nil
}

// Exec runs statements as one batch. See ExecuteAll.
func (s *Session) Exec(ctx context.Context, statements []string) ([]ResultSet, error) {
	return ExecuteAll(ctx, s.db, statements)
}

// Tables returns the names of the tables in the database
func (s *Session) Tables(ctx context.Context) ([]string, error) {
	return csvsqldriver.TableNames(ctx, s.db)
}

// Close closes the database. Closing twice is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
