package csvsql

import (
	"fmt"
	"strconv"

	"github.com/nao1215/csvsql/domain/model"
)

// syntheticColumnPrefix starts every column name the importer has to invent.
const syntheticColumnPrefix = "__COL"

// columnNamer hands out column names for one table import.
//
// The counter advances once per normalized column, whether the name is
// explicit or synthesized, so a synthesized name carries the 1-based
// position at which the column first appeared. Names already taken by
// the schema are never handed out twice.
type columnNamer struct {
	counter int
	digits  int
	taken   map[string]struct{}
}

// newColumnNamer creates a namer whose synthesized indexes are zero-padded
// to the number of digits of expected.
func newColumnNamer(expected int) *columnNamer {
	if expected < 1 {
		expected = 1
	}
	return &columnNamer{
		digits: len(strconv.Itoa(expected)),
		taken:  make(map[string]struct{}),
	}
}

// header normalizes a raw header row. Explicit names are kept verbatim and
// registered before any blank is synthesized, so "__COL02" in the header
// cannot be produced again for a blank cell.
func (n *columnNamer) header(raw model.Header) (model.Header, error) {
	if err := explicitNames(raw).Validate(); err != nil {
		return nil, err
	}
	for _, name := range raw {
		if name != "" {
			n.reserve(name)
		}
	}

	names := make(model.Header, 0, len(raw))
	for _, name := range raw {
		names = append(names, n.normalize(name))
	}
	return names, nil
}

// next returns the name of a column appended after the header.
func (n *columnNamer) next() string {
	return n.normalize("")
}

// normalize returns rawName unchanged when it is not empty and a synthesized
// name otherwise. It advances the counter in both cases.
func (n *columnNamer) normalize(rawName string) string {
	n.counter++
	if rawName != "" {
		n.reserve(rawName)
		return rawName
	}

	base := fmt.Sprintf("%s%0*d", syntheticColumnPrefix, n.digits, n.counter)
	name := base
	for suffix := 2; n.isTaken(name); suffix++ {
		name = fmt.Sprintf("%s_%d", base, suffix)
	}
	n.reserve(name)
	return name
}

func (n *columnNamer) reserve(name string) {
	n.taken[model.ColumnKey(name)] = struct{}{}
}

func (n *columnNamer) isTaken(name string) bool {
	_, ok := n.taken[model.ColumnKey(name)]
	return ok
}

// explicitNames drops blank cells, which are synthesized later.
func explicitNames(raw model.Header) model.Header {
	names := make(model.Header, 0, len(raw))
	for _, name := range raw {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
