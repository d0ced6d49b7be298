package model

import (
	"path/filepath"
	"strings"
)

// FileType represents supported input file types
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeLTSV represents LTSV file type
	FileTypeLTSV
	// FileTypeXLSX represents Excel workbook file type
	FileTypeXLSX
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	// ExtCSV is the CSV file extension
	ExtCSV = ".csv"
	// ExtTSV is the TSV file extension
	ExtTSV = ".tsv"
	// ExtLTSV is the LTSV file extension
	ExtLTSV = ".ltsv"
	// ExtXLSX is the Excel workbook file extension
	ExtXLSX = ".xlsx"
	// ExtParquet is the Parquet file extension
	ExtParquet = ".parquet"
	// ExtGZ is the gzip compression extension
	ExtGZ = ".gz"
	// ExtBZ2 is the bzip2 compression extension
	ExtBZ2 = ".bz2"
	// ExtXZ is the xz compression extension
	ExtXZ = ".xz"
	// ExtZSTD is the zstd compression extension
	ExtZSTD = ".zst"
)

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeLTSV:
		return "ltsv"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeParquet:
		return "parquet"
	default:
		return "unsupported"
	}
}

// DetectFileType returns the type of the file after any compression
// extension is removed.
func DetectFileType(path string) FileType {
	base := strings.ToLower(TrimCompressionExtension(path))
	switch filepath.Ext(base) {
	case ExtCSV:
		return FileTypeCSV
	case ExtTSV:
		return FileTypeTSV
	case ExtLTSV:
		return FileTypeLTSV
	case ExtXLSX:
		return FileTypeXLSX
	case ExtParquet:
		return FileTypeParquet
	default:
		return FileTypeUnsupported
	}
}

// IsSupportedFile checks if the file has a supported extension
func IsSupportedFile(path string) bool {
	return DetectFileType(path) != FileTypeUnsupported
}

// DetectCompressionType detects the compression type from a file path
func DetectCompressionType(path string) CompressionType {
	p := strings.ToLower(path)
	switch {
	case strings.HasSuffix(p, ExtGZ):
		return CompressionGZ
	case strings.HasSuffix(p, ExtBZ2):
		return CompressionBZ2
	case strings.HasSuffix(p, ExtXZ):
		return CompressionXZ
	case strings.HasSuffix(p, ExtZSTD):
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// TrimCompressionExtension removes the compression extension from a path if present
func TrimCompressionExtension(path string) string {
	ext := DetectCompressionType(path).Extension()
	if ext == "" {
		return path
	}
	return path[:len(path)-len(ext)]
}

// TableFromFilePath creates table name from file path.
// "users.csv" becomes "users" and "logs.tsv.gz" becomes "logs".
// The name is not sanitized.
func TableFromFilePath(filePath string) string {
	fileName := TrimCompressionExtension(filepath.Base(filePath))
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
