package parser

import (
	"regexp"
	"strings"
)

// Attribute is the kind of SQL element a dump line holds.
type Attribute int

const (
	// AttrNone marks a line the parser does not need to understand
	AttrNone Attribute = iota
	// AttrDatabase marks a "-- ... Database: name" comment
	AttrDatabase
	// AttrCreateTable marks a "CREATE TABLE `name` (" line
	AttrCreateTable
	// AttrColumn marks a "`name` type," column definition
	AttrColumn
	// AttrPrimaryKey marks a "PRIMARY KEY (`a`,`b`)," clause
	AttrPrimaryKey
	// AttrInsert marks an "INSERT INTO `name` VALUES (...),(...);" statement
	AttrInsert
)

// String returns the name of the attribute
func (a Attribute) String() string {
	switch a {
	case AttrDatabase:
		return "database"
	case AttrCreateTable:
		return "create"
	case AttrColumn:
		return "column"
	case AttrPrimaryKey:
		return "primary_key"
	case AttrInsert:
		return "insert"
	default:
		return "none"
	}
}

const databaseMarker = "Database: "

// line-start markers, checked against the whitespace-trimmed line
var linePrefixes = map[Attribute]string{
	AttrDatabase:    "--",
	AttrCreateTable: "CREATE TABLE",
	AttrColumn:      "`",
	AttrPrimaryKey:  "PRIMARY KEY",
	AttrInsert:      "INSERT INTO",
}

var (
	// first backtick-quoted token; greedy so a key list keeps its inner backticks
	quotedNamePattern = regexp.MustCompile("`(\\S*)`")
	// everything after the first "` " up to the last comma on the line
	columnTypePattern = regexp.MustCompile("` (.*),")
)

// classification order matters: a database comment is checked before anything else
var classifyOrder = []Attribute{
	AttrDatabase,
	AttrCreateTable,
	AttrColumn,
	AttrPrimaryKey,
	AttrInsert,
}

// HasAttribute reports whether line holds the given SQL element.
func HasAttribute(line string, attr Attribute) bool {
	prefix, ok := linePrefixes[attr]
	if !ok {
		return false
	}
	if !strings.HasPrefix(strings.TrimSpace(line), prefix) {
		return false
	}
	if attr == AttrDatabase {
		return strings.Contains(line, databaseMarker)
	}
	return true
}

// Classify returns the first attribute line holds, or AttrNone.
func Classify(line string) Attribute {
	for _, attr := range classifyOrder {
		if HasAttribute(line, attr) {
			return attr
		}
	}
	return AttrNone
}

// ExtractDatabase returns the text after "Database: ".
func ExtractDatabase(line string) (string, bool) {
	_, after, found := strings.Cut(strings.TrimSpace(line), databaseMarker)
	if !found {
		return "", false
	}
	return after, true
}

// ExtractTableName returns the first backtick-quoted name on a CREATE TABLE line.
func ExtractTableName(line string) (string, bool) {
	return extractQuotedName(line)
}

// ExtractColumnName returns the backtick-quoted name of a column definition.
func ExtractColumnName(line string) (string, bool) {
	return extractQuotedName(line)
}

// ExtractColumnType returns the declared type of a column definition,
// without the trailing comma.
func ExtractColumnType(line string) (string, bool) {
	m := columnTypePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractPrimaryKey returns the columns of a PRIMARY KEY clause.
// Composite keys yield one entry per column.
func ExtractPrimaryKey(line string) ([]string, bool) {
	keys, ok := extractQuotedName(line)
	if !ok {
		return nil, false
	}
	return strings.Split(strings.ReplaceAll(keys, "`", ""), ","), true
}

func extractQuotedName(line string) (string, bool) {
	m := quotedNamePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
