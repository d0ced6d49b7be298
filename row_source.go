package csvsql

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/nao1215/csvsql/domain/model"
	"github.com/xuri/excelize/v2"
)

// RowSource yields the rows of one table, one at a time.
// Next returns io.EOF after the last row.
type RowSource interface {
	Next() (model.Record, error)
	Close() error
}

// namedSource is implemented by sources whose rows carry their own column
// names, so a wider row extends the schema with a real name instead of a
// synthesized one.
type namedSource interface {
	// Columns returns every column name seen so far, in order.
	Columns() model.Header
}

// NewDelimitedSource reads delimited text (CSV, TSV, ...) from r.
// Rows may have any number of fields.
func NewDelimitedSource(r io.Reader, dialect Dialect) RowSource {
	return newDelimitedSource(r, dialect, nil)
}

type delimitedSource struct {
	reader *csv.Reader
	closer func() error
}

func newDelimitedSource(r io.Reader, dialect Dialect, closer func() error) *delimitedSource {
	reader := csv.NewReader(r)
	reader.Comma = dialect.Delimiter
	if reader.Comma == 0 {
		reader.Comma = csvDelimiter
	}
	reader.Comment = dialect.Comment
	reader.LazyQuotes = dialect.LazyQuotes
	reader.TrimLeadingSpace = dialect.TrimLeadingSpace
	reader.FieldsPerRecord = -1
	return &delimitedSource{reader: reader, closer: closer}
}

// Next implements RowSource
func (s *delimitedSource) Next() (model.Record, error) {
	row, err := s.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read delimited row: %w", err)
	}
	return model.NewRecord(row), nil
}

// Close implements RowSource
func (s *delimitedSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// ltsvSource reads Labeled Tab-separated Values. The first row it returns
// is the label list of the first record, so it is always imported with a
// header. A record that introduces a new label gets a wider row.
type ltsvSource struct {
	scanner *bufio.Scanner
	labels  model.Header
	index   map[string]int
	pending model.Record
	started bool
	closer  func() error
}

func newLTSVSource(r io.Reader, closer func() error) *ltsvSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &ltsvSource{
		scanner: scanner,
		index:   make(map[string]int),
		closer:  closer,
	}
}

// Next implements RowSource
func (s *ltsvSource) Next() (model.Record, error) {
	if !s.started {
		s.started = true
		first, err := s.readRecord()
		if err != nil {
			return nil, err
		}
		s.pending = first
		return model.NewRecord(append([]string(nil), s.labels...)), nil
	}
	if s.pending != nil {
		row := s.pending
		s.pending = nil
		return row, nil
	}
	return s.readRecord()
}

// Columns implements namedSource
func (s *ltsvSource) Columns() model.Header {
	return s.labels
}

func (s *ltsvSource) readRecord() (model.Record, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		values := make(map[int]string)
		for pair := range strings.SplitSeq(line, "\t") {
			kv := strings.SplitN(pair, ":", 2)
			if len(kv) != 2 {
				continue
			}
			key := strings.TrimSpace(kv[0])
			i, ok := s.index[key]
			if !ok {
				i = len(s.labels)
				s.index[key] = i
				s.labels = append(s.labels, key)
			}
			values[i] = strings.TrimSpace(kv[1])
		}
		if len(values) == 0 {
			continue
		}

		row := make(model.Record, len(s.labels))
		for i, v := range values {
			row[i] = v
		}
		return row, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read LTSV: %w", err)
	}
	return nil, io.EOF
}

// Close implements RowSource
func (s *ltsvSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// sheetSource streams the rows of one worksheet.
type sheetSource struct {
	rows    *excelize.Rows
	sheet   string
	started bool
}

// newXLSXSources opens every worksheet of a workbook. The returned map is
// keyed by sheet name and sheets lists the names in workbook order. The
// caller closes the returned closer after the last sheet has been read.
func newXLSXSources(r io.Reader) (sheets []string, sources map[string]RowSource, closer func() error, err error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	closer = book.Close

	sheets = book.GetSheetList()
	if len(sheets) == 0 {
		_ = closer()
		return nil, nil, nil, errors.New("no sheets found in XLSX file")
	}

	sources = make(map[string]RowSource, len(sheets))
	for _, sheet := range sheets {
		rows, err := book.Rows(sheet)
		if err != nil {
			for _, src := range sources {
				_ = src.Close()
			}
			_ = closer()
			return nil, nil, nil, fmt.Errorf("failed to open rows iterator for sheet %s: %w", sheet, err)
		}
		sources[sheet] = &sheetSource{rows: rows, sheet: sheet}
	}
	return sheets, sources, closer, nil
}

// Next implements RowSource. Leading empty rows are skipped.
func (s *sheetSource) Next() (model.Record, error) {
	for s.rows.Next() {
		row, err := s.rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row in sheet %s: %w", s.sheet, err)
		}
		if !s.started && len(row) == 0 {
			continue
		}
		s.started = true
		return model.NewRecord(row), nil
	}
	if err := s.rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", s.sheet, err)
	}
	return nil, io.EOF
}

// Close implements RowSource
func (s *sheetSource) Close() error {
	return s.rows.Close()
}

// parquetSource walks the record batches of a Parquet file. The first row
// it returns is the schema's field names.
type parquetSource struct {
	file    *pqfile.Reader
	records pqarrow.RecordReader
	fields  []arrow.Field
	batch   arrow.Record
	row     int64
	started bool
}

// newParquetSource buffers r, since Parquet needs random access.
func newParquetSource(ctx context.Context, r io.Reader) (*parquetSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	pq, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader from bytes: %w", err)
	}

	arrowReader, err := pqarrow.NewFileReader(pq, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		_ = pq.Close()
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	records, err := arrowReader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		_ = pq.Close()
		return nil, fmt.Errorf("failed to create record reader: %w", err)
	}

	return &parquetSource{
		file:    pq,
		records: records,
		fields:  records.Schema().Fields(),
	}, nil
}

// Next implements RowSource
func (s *parquetSource) Next() (model.Record, error) {
	if !s.started {
		s.started = true
		header := make(model.Record, len(s.fields))
		for i, field := range s.fields {
			header[i] = field.Name
		}
		return header, nil
	}

	for s.batch == nil || s.row >= s.batch.NumRows() {
		if !s.records.Next() {
			if err := s.records.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("error reading parquet records: %w", err)
			}
			return nil, io.EOF
		}
		s.batch = s.records.Record()
		s.row = 0
	}

	row := make(model.Record, s.batch.NumCols())
	for j, col := range s.batch.Columns() {
		row[j] = arrowValueString(col, int(s.row))
	}
	s.row++
	return row, nil
}

// Close implements RowSource
func (s *parquetSource) Close() error {
	s.records.Release()
	return s.file.Close()
}

// arrowValueString renders one cell of an arrow column. NULL becomes "".
func arrowValueString(col arrow.Array, i int) string {
	if col.IsNull(i) {
		return ""
	}
	switch a := col.(type) {
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return string(a.Value(i))
	default:
		return col.ValueStr(i)
	}
}
