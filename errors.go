package mwsql

import (
	"fmt"
	"strings"

	"github.com/nao1215/mwsql/domain/model"
)

// Errors shared with the parser and model packages, re-exported for callers
// of the root package.
var (
	// ErrLengthMismatch indicates that a row and its kinds differ in length
	ErrLengthMismatch = model.ErrLengthMismatch
	// ErrConversion indicates that a field could not be cast to its kind
	ErrConversion = model.ErrConversion
	// ErrQuoting indicates malformed quoting in a row-tuple
	ErrQuoting = model.ErrQuoting
	// ErrInvalidReaderConfig indicates an unusable field reader configuration
	ErrInvalidReaderConfig = model.ErrInvalidReaderConfig
	// ErrUnsupportedEncoding indicates an unknown text encoding name
	ErrUnsupportedEncoding = model.ErrUnsupportedEncoding
	// ErrUnsupportedFormat indicates an unsupported export format or compression
	ErrUnsupportedFormat = model.ErrUnsupportedFormat
	// ErrFileNotFound indicates file not found
	ErrFileNotFound = model.ErrFileNotFound
	// ErrDuplicateColumnName is returned when a dump declares the same column twice
	ErrDuplicateColumnName = model.ErrDuplicateColumnName
	// ErrNoColumns indicates that the dump declares no columns
	ErrNoColumns = model.ErrNoColumns
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	parts := []string{fmt.Sprintf("mwsql: %s failed", ec.Operation)}

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}
	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	msg := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", msg, baseErr)
	}
	return fmt.Errorf("%s", msg)
}
