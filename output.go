package csvsql

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/csvsql/domain/model"
)

// WriteResult writes a result set to w in the given format.
// CSV and TSV output start with the column names; an empty result set
// writes nothing in those formats.
func WriteResult(w io.Writer, rs model.ResultSet, format model.OutputFormat) error {
	switch format {
	case model.OutputFormatTSV:
		return writeDelimited(w, rs, tsvDelimiter)
	case model.OutputFormatTable:
		return writeTable(w, rs)
	case model.OutputFormatJSON:
		return writeJSON(w, rs)
	case model.OutputFormatMarkdown:
		return writeMarkdown(w, rs)
	default:
		return writeDelimited(w, rs, csvDelimiter)
	}
}

func writeDelimited(w io.Writer, rs model.ResultSet, delimiter rune) error {
	if rs.IsEmpty() {
		return nil
	}

	writer := csv.NewWriter(w)
	writer.Comma = delimiter
	if err := writer.Write(rs.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range rs.Records() {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func newTableWriter(rs model.ResultSet) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, record := range rs.Records() {
		row := make(table.Row, len(record))
		for i, v := range record {
			row[i] = v
		}
		t.AppendRow(row)
	}
	return t
}

func writeTable(w io.Writer, rs model.ResultSet) error {
	if rs.IsEmpty() || rs.Len() == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	if _, err := fmt.Fprintln(w, newTableWriter(rs).Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d rows)\n", rs.Len())
	return err
}

func writeMarkdown(w io.Writer, rs model.ResultSet) error {
	if rs.IsEmpty() {
		return nil
	}
	_, err := fmt.Fprintln(w, newTableWriter(rs).RenderMarkdown())
	return err
}

func writeJSON(w io.Writer, rs model.ResultSet) error {
	keys := jsonKeys(rs.Columns)
	objects := make([]map[string]any, 0, rs.Len())
	for _, row := range rs.Rows {
		obj := make(map[string]any, len(keys))
		for i, key := range keys {
			obj[key] = row[i]
		}
		objects = append(objects, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

// jsonKeys returns one object key per column. A repeated column name gets
// a "_N" suffix so no value is lost.
func jsonKeys(columns []string) []string {
	keys := make([]string, len(columns))
	taken := make(map[string]bool, len(columns))
	for i, col := range columns {
		key := col
		for n := 2; taken[key]; n++ {
			key = fmt.Sprintf("%s_%d", col, n)
		}
		taken[key] = true
		keys[i] = key
	}
	return keys
}
