package csvsql

import (
	"fmt"
	"io"
	"strings"
)

// commentMarker starts a comment that runs to the end of the line.
// It is removed wherever it appears, quoted or not.
const commentMarker = "--"

// lineBreaks turns every line break, including a bare carriage return,
// into "\n".
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitStatements splits a script into statements without parsing SQL.
//
// Everything from "--" to the end of a line is dropped. The remaining lines
// are joined with single spaces and split on ";". Each non-blank fragment
// gets its ";" back and is trimmed. The result keeps script order.
func SplitStatements(text string) []string {
	lines := strings.Split(lineBreaks.Replace(text), "\n")
	for i, line := range lines {
		if idx := strings.Index(line, commentMarker); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	joined := strings.Join(lines, " ")

	statements := make([]string, 0)
	for fragment := range strings.SplitSeq(joined, ";") {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		statements = append(statements, strings.TrimSpace(fragment+";"))
	}
	return statements
}

// StatementKind tells where the text of a StatementSource lives.
type StatementKind int

const (
	// StatementInline means Value is SQL text
	StatementInline StatementKind = iota
	// StatementFile means Value is the path of a script file
	StatementFile
)

// String returns the string representation of StatementKind
func (k StatementKind) String() string {
	switch k {
	case StatementInline:
		return "inline"
	case StatementFile:
		return "file"
	default:
		return "unknown"
	}
}

// StatementSource is one -s or -f argument.
type StatementSource struct {
	Kind  StatementKind
	Value string
}

// InlineStatement creates a StatementSource from SQL text
func InlineStatement(sql string) StatementSource {
	return StatementSource{Kind: StatementInline, Value: sql}
}

// StatementFileSource creates a StatementSource from a script path
func StatementFileSource(path string) StatementSource {
	return StatementSource{Kind: StatementFile, Value: path}
}

// CollectStatements expands sources in order into one statement list.
// Script files may be compressed. An empty result is ErrNoStatements.
func CollectStatements(sources []StatementSource) ([]string, error) {
	var statements []string
	for _, src := range sources {
		text := src.Value
		if src.Kind == StatementFile {
			var err error
			if text, err = readScript(src.Value); err != nil {
				return nil, err
			}
		}
		statements = append(statements, SplitStatements(text)...)
	}
	if len(statements) == 0 {
		return nil, ErrNoStatements
	}
	return statements, nil
}

func readScript(path string) (string, error) {
	reader, closer, err := openCompressedFile(path)
	if err != nil {
		return "", NewErrorContext("read script", path).Error(err)
	}
	defer func() { _ = closer() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", NewErrorContext("read script", path).Error(fmt.Errorf("failed to read: %w", err))
	}
	return string(data), nil
}
