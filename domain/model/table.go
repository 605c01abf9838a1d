package model

import (
	"path/filepath"
	"strings"
)

// Character validation constants
const (
	firstDigitChar = '0'
	lastDigitChar  = '9'
	firstLowerChar = 'a'
	lastLowerChar  = 'z'
	firstUpperChar = 'A'
	lastUpperChar  = 'Z'
	underscoreChar = '_'
)

// TableName represents a table name with validation
type TableName struct {
	value string
}

// NewTableName creates a new TableName with validation
func NewTableName(name string) TableName {
	// Basic validation - table name cannot be empty
	if strings.TrimSpace(name) == "" {
		return TableName{value: "table"}
	}
	return TableName{value: strings.TrimSpace(name)}
}

// String returns the string representation of TableName
func (tn TableName) String() string {
	return tn.value
}

// Sanitize returns a version of the table name that only holds ASCII
// letters, digits and underscores and does not start with a digit.
func (tn TableName) Sanitize() TableName {
	result := strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(tn.value)

	var sanitized strings.Builder
	for _, r := range result {
		if (r >= firstLowerChar && r <= lastLowerChar) ||
			(r >= firstUpperChar && r <= lastUpperChar) ||
			(r >= firstDigitChar && r <= lastDigitChar) ||
			r == underscoreChar {
			sanitized.WriteRune(r)
		}
	}

	finalResult := sanitized.String()
	if len(finalResult) > 0 && finalResult[0] >= firstDigitChar && finalResult[0] <= lastDigitChar {
		finalResult = "table_" + finalResult
	}
	if finalResult == "" {
		finalResult = "table"
	}
	return TableName{value: finalResult}
}

// Truncate shortens the table name to at most n bytes.
func (tn TableName) Truncate(n int) TableName {
	if n <= 0 || len(tn.value) <= n {
		return tn
	}
	return TableName{value: tn.value[:n]}
}

// TableFromFilePath derives a table name from a dump file path.
//
// "enwiki-latest-page.sql.gz" becomes "enwiki-latest-page".
func TableFromFilePath(filePath string) string {
	fileName := filepath.Base(filePath)
	// Remove compression extensions first
	for _, ext := range []string{ExtGZ, ExtBZ2, ExtXZ, ExtZSTD} {
		if strings.HasSuffix(strings.ToLower(fileName), ext) {
			fileName = fileName[:len(fileName)-len(ext)]
			break
		}
	}
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
