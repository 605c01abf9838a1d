// Package model provides domain model for mwsql
package model

// Record is one row-tuple of a dump as raw field strings.
type Record []string

// NewRecord create new Record.
func NewRecord(r []string) Record {
	return Record(r)
}

// Equal compare Record.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// Row converts the record into a Row holding the raw strings.
func (r Record) Row() Row {
	row := make(Row, len(r))
	for i, v := range r {
		row[i] = v
	}
	return row
}

// Row is one row of a dump table.
//
// Fields are either raw strings (unconverted rows) or one of int64, uint64,
// float64 or string (converted rows).
type Row []any

// Strings renders every field of the row as a string.
// Converted numeric fields are formatted the same way they appear in the dump.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = FormatValue(v)
	}
	return out
}

// Kind is the native scalar category a declared SQL type maps to.
type Kind int

const (
	// KindString represents a value kept as text
	KindString Kind = iota
	// KindInteger represents a value converted to an integer
	KindInteger
	// KindFloat represents a value converted to a floating-point number
	KindFloat
)

const (
	// sqliteTypeText is the SQLite TEXT affinity
	sqliteTypeText = "TEXT"
	// sqliteTypeInteger is the SQLite INTEGER affinity
	sqliteTypeInteger = "INTEGER"
	// sqliteTypeReal is the SQLite REAL affinity
	sqliteTypeReal = "REAL"
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "str"
	}
}

// SQLiteType returns the SQLite column affinity used when loading the kind
func (k Kind) SQLiteType() string {
	switch k {
	case KindInteger:
		return sqliteTypeInteger
	case KindFloat:
		return sqliteTypeReal
	default:
		return sqliteTypeText
	}
}
