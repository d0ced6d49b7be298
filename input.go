package csvsql

import (
	"context"
	"database/sql"
	"io"

	"github.com/nao1215/csvsql/domain/model"
)

// Input is one file to import.
type Input struct {
	// Path is the file path. The table is named after the file stem.
	Path string
	// HeaderMode selects whether the first row names the columns.
	// LTSV and Parquet inputs always carry their own column names.
	HeaderMode model.HeaderMode
}

// ImportOptions tunes how files are read.
type ImportOptions struct {
	// Dialect overrides the delimiter conventions of CSV and TSV inputs
	Dialect *Dialect
	// Sniff guesses the delimiter of CSV and TSV inputs from their first line
	Sniff bool
	// ProgressInterval is how many rows pass between progress log lines
	ProgressInterval int
}

// ImportFile imports one file into the table named after its stem.
// Compressed files (.gz, .bz2, .xz, .zst) are decompressed on the fly.
// Every sheet of an XLSX workbook becomes its own table "<stem>_<sheet>".
func ImportFile(ctx context.Context, db *sql.DB, in Input, opts ImportOptions) error {
	fileType := model.DetectFileType(in.Path)
	if fileType == model.FileTypeUnsupported {
		return NewErrorContext("import", in.Path).Error(ErrUnsupportedFormat)
	}

	reader, closer, err := openCompressedFile(in.Path)
	if err != nil {
		return NewErrorContext("open", in.Path).Error(err)
	}
	defer func() { _ = closer() }()

	im := newTableImporter(opts.ProgressInterval)
	tableName := model.TableFromFilePath(in.Path)
	LoggerFrom(ctx).Debug("importing file",
		"path", in.Path,
		"type", fileType.String(),
		"table", tableName,
		"header", in.HeaderMode.String())

	switch fileType {
	case model.FileTypeLTSV:
		return im.importTable(ctx, db, newLTSVSource(reader, nil), tableName, model.HeaderModeWithHeader, in.Path)

	case model.FileTypeParquet:
		src, err := newParquetSource(ctx, reader)
		if err != nil {
			return NewErrorContext("import", in.Path).WithTable(tableName).Error(err)
		}
		defer func() { _ = src.Close() }()
		return im.importTable(ctx, db, src, tableName, model.HeaderModeWithHeader, in.Path)

	case model.FileTypeXLSX:
		return importWorkbook(ctx, db, im, reader, in, tableName)

	default:
		dialect, r := resolveDialect(fileType, reader, opts)
		return im.importTable(ctx, db, newDelimitedSource(r, dialect, nil), tableName, in.HeaderMode, in.Path)
	}
}

// importWorkbook imports every sheet of a workbook in workbook order.
func importWorkbook(ctx context.Context, db *sql.DB, im *tableImporter, reader io.Reader, in Input, stem string) error {
	sheets, sources, closer, err := newXLSXSources(reader)
	if err != nil {
		return NewErrorContext("import", in.Path).Error(err)
	}
	defer func() {
		for _, src := range sources {
			_ = src.Close()
		}
		_ = closer()
	}()

	for _, sheet := range sheets {
		if err := im.importTable(ctx, db, sources[sheet], stem+"_"+sheet, in.HeaderMode, in.Path); err != nil {
			return err
		}
	}
	return nil
}

// resolveDialect picks the dialect of a delimited input: an explicit
// dialect wins, then sniffing, then the file extension.
func resolveDialect(fileType model.FileType, r io.Reader, opts ImportOptions) (Dialect, io.Reader) {
	if opts.Dialect != nil {
		return *opts.Dialect, r
	}
	if opts.Sniff {
		return sniffReader(r)
	}
	if fileType == model.FileTypeTSV {
		return DialectTSV, r
	}
	return DialectCSV, r
}
