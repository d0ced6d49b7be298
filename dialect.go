package csvsql

import (
	"bufio"
	"bytes"
	"io"
)

const (
	csvDelimiter = ','
	tsvDelimiter = '\t'
)

// sniffSampleSize is how many bytes SniffDialect may look at.
const sniffSampleSize = 64 * 1024

// Dialect describes the conventions of a delimited text source.
type Dialect struct {
	// Delimiter separates fields
	Delimiter rune
	// Comment starts a line that is ignored. Zero disables comments.
	Comment rune
	// LazyQuotes allows quotes to appear in unquoted fields
	LazyQuotes bool
	// TrimLeadingSpace ignores leading white space in a field
	TrimLeadingSpace bool
}

var (
	// DialectCSV is comma separated values
	DialectCSV = Dialect{Delimiter: csvDelimiter}
	// DialectTSV is tab separated values
	DialectTSV = Dialect{Delimiter: tsvDelimiter}
)

// sniffCandidates are tried in order; on a tie the earlier one wins.
var sniffCandidates = []rune{',', '\t', ';', '|'}

// SniffDialect guesses the delimiter of a delimited source from its first line.
// Delimiters inside double-quoted fields are not counted. A line without any
// candidate delimiter is treated as CSV.
func SniffDialect(firstLine string) Dialect {
	counts := make(map[rune]int, len(sniffCandidates))
	inQuotes := false
	for _, r := range firstLine {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		counts[r]++
	}

	best := DialectCSV
	bestCount := 0
	for _, c := range sniffCandidates {
		if counts[c] > bestCount {
			best = Dialect{Delimiter: c}
			bestCount = counts[c]
		}
	}
	return best
}

// sniffReader peeks at the first line of r and returns the guessed dialect
// together with a reader that still yields every byte of r.
func sniffReader(r io.Reader) (Dialect, io.Reader) {
	br := bufio.NewReaderSize(r, sniffSampleSize)
	sample, _ := br.Peek(sniffSampleSize) //nolint:errcheck // a short read still yields a usable sample
	if i := bytes.IndexAny(sample, "\r\n"); i >= 0 {
		sample = sample[:i]
	}
	return SniffDialect(string(sample)), br
}
