package parser

import (
	"strings"
)

const (
	// valuesMarker separates the INSERT INTO head from the value-tuple list
	valuesMarker = " VALUES "
	// tupleSeparator sits between two adjacent row-tuples
	tupleSeparator = "),("
	// nullMarker is the bare SQL NULL literal
	nullMarker = "NULL"
)

// SplitTuples splits an INSERT INTO statement into one string per row-tuple.
//
//	INSERT INTO `change_tag_def` VALUES (1,'mw-replace',0,10200),(2,'visualeditor',0,305860);
//
// yields
//
//	1,'mw-replace',0,10200
//	2,'visualeditor',0,305860
//
// Bare NULL values become empty fields. A line without a value list yields no tuples.
func SplitTuples(line string) []string {
	_, values, found := strings.Cut(line, valuesMarker)
	if !found {
		return nil
	}
	values = strings.TrimSpace(values)
	values = replaceNulls(values)
	values = strings.TrimSuffix(values, ";")
	if len(values) < 2 {
		return nil
	}
	return strings.Split(values[1:len(values)-1], tupleSeparator)
}

// replaceNulls drops every NULL that directly follows ',' or '(' and directly
// precedes ',' or ')'. Neighbours are looked up in the original string, so
// adjacent markers such as ",NULL,NULL)" are all removed.
func replaceNulls(s string) string {
	if !strings.Contains(s, nullMarker) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if isBareNull(s, i) {
			i += len(nullMarker)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func isBareNull(s string, i int) bool {
	end := i + len(nullMarker)
	if i == 0 || end >= len(s) || s[i:end] != nullMarker {
		return false
	}
	before, after := s[i-1], s[end]
	return (before == ',' || before == '(') && (after == ',' || after == ')')
}
