package model

import "errors"

var (
	// ErrDuplicateColumnName is returned when a dump declares the same column twice
	ErrDuplicateColumnName = errors.New("mwsql: duplicate column name")

	// ErrLengthMismatch indicates that a row and its kinds differ in length
	ErrLengthMismatch = errors.New("mwsql: values and kinds are not the same length")

	// ErrConversion indicates that a field could not be cast to its kind
	ErrConversion = errors.New("mwsql: value could not be converted")

	// ErrQuoting indicates malformed quoting in a row-tuple
	ErrQuoting = errors.New("mwsql: malformed quoting")

	// ErrInvalidReaderConfig indicates an unusable field reader configuration
	ErrInvalidReaderConfig = errors.New("mwsql: invalid reader configuration")

	// ErrUnsupportedEncoding indicates an unknown text encoding name
	ErrUnsupportedEncoding = errors.New("mwsql: unsupported encoding")

	// ErrUnsupportedFormat indicates an unsupported export format or compression
	ErrUnsupportedFormat = errors.New("mwsql: unsupported format")

	// ErrFileNotFound indicates file not found
	ErrFileNotFound = errors.New("mwsql: file not found")

	// ErrNoColumns indicates that the dump declares no columns
	ErrNoColumns = errors.New("mwsql: no columns found in dump")
)
