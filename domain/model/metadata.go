package model

import (
	"fmt"
	"strings"
)

// Metadata describes the table stored in a dump file.
// It is filled once from the header region of the dump and not changed afterwards.
type Metadata struct {
	// Database is the wiki database, e.g. "enwiki". Empty when the dump does not say.
	Database string
	// Table is the SQL table name. Empty when no CREATE TABLE line was seen.
	Table string
	// Columns holds the column names in declaration order.
	Columns []string
	// SQLTypes maps every column name to its declared SQL type,
	// e.g. "int(10) unsigned NOT NULL AUTO_INCREMENT".
	SQLTypes map[string]string
	// PrimaryKey holds the primary key columns. Nil when no key was declared.
	PrimaryKey []string
}

// NewMetadata creates empty metadata.
func NewMetadata() *Metadata {
	return &Metadata{
		Columns:  make([]string, 0),
		SQLTypes: make(map[string]string),
	}
}

// AddColumn appends a column definition.
// Column names are unique; a second definition of the same name is rejected.
func (m *Metadata) AddColumn(name, sqlType string) error {
	if _, ok := m.SQLTypes[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateColumnName, name)
	}
	m.Columns = append(m.Columns, name)
	m.SQLTypes[name] = sqlType
	return nil
}

// SQLTypeList returns the declared SQL types in column order.
func (m *Metadata) SQLTypeList() []string {
	types := make([]string, len(m.Columns))
	for i, name := range m.Columns {
		types[i] = m.SQLTypes[name]
	}
	return types
}

// HasPrimaryKey reports whether every primary key column is a declared column.
func (m *Metadata) HasPrimaryKey() bool {
	if len(m.PrimaryKey) == 0 {
		return false
	}
	for _, key := range m.PrimaryKey {
		if _, ok := m.SQLTypes[key]; !ok {
			return false
		}
	}
	return true
}

// String returns a short description of the metadata.
func (m *Metadata) String() string {
	return fmt.Sprintf("%s.%s(%s)", m.Database, m.Table, strings.Join(m.Columns, ", "))
}
