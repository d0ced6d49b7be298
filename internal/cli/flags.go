package cli

import (
	"strings"

	"github.com/nao1215/csvsql"
	"github.com/nao1215/csvsql/domain/model"
)

// inputList collects -i and -u in command line order. Each flag gets its
// own inputFlag bound to the shared list.
type inputList struct {
	inputs []csvsql.Input
}

type inputFlag struct {
	list *inputList
	mode model.HeaderMode
}

// String implements pflag.Value
func (f *inputFlag) String() string {
	var paths []string
	for _, in := range f.list.inputs {
		if in.HeaderMode == f.mode {
			paths = append(paths, in.Path)
		}
	}
	return "[" + strings.Join(paths, ",") + "]"
}

// Set implements pflag.Value
func (f *inputFlag) Set(path string) error {
	f.list.inputs = append(f.list.inputs, csvsql.Input{Path: path, HeaderMode: f.mode})
	return nil
}

// Type implements pflag.Value
func (f *inputFlag) Type() string {
	return "path"
}

// statementList collects -s and -f in command line order.
type statementList struct {
	sources []csvsql.StatementSource
}

type statementFlag struct {
	list *statementList
	kind csvsql.StatementKind
}

// String implements pflag.Value
func (f *statementFlag) String() string {
	var values []string
	for _, src := range f.list.sources {
		if src.Kind == f.kind {
			values = append(values, src.Value)
		}
	}
	return "[" + strings.Join(values, ",") + "]"
}

// Set implements pflag.Value
func (f *statementFlag) Set(value string) error {
	f.list.sources = append(f.list.sources, csvsql.StatementSource{Kind: f.kind, Value: value})
	return nil
}

// Type implements pflag.Value
func (f *statementFlag) Type() string {
	if f.kind == csvsql.StatementFile {
		return "path"
	}
	return "sql"
}

// orderedFlagNames are collected by the flag values above and never go
// through the configuration loader.
var orderedFlagNames = map[string]bool{
	"input":           true,
	"input-no-header": true,
	"statement":       true,
	"file":            true,
}
