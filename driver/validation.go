package driver

import (
	"errors"
	"path/filepath"
	"strings"
)

// MaxFilesPerDirectory defines the maximum number of dump files loaded from one directory
const MaxFilesPerDirectory = 1000

// MaxColumnCount defines the maximum number of columns a table may have (SQLite's default limit)
const MaxColumnCount = 2000

var (
	// ErrTooManyFiles is returned when a directory contains too many dump files
	ErrTooManyFiles = errors.New("too many dump files in directory")

	// ErrTooManyColumns is returned when a dump declares too many columns
	ErrTooManyColumns = errors.New("too many columns")

	// ErrInvalidPath is returned when a path is invalid or potentially dangerous
	ErrInvalidPath = errors.New("invalid or dangerous path")
)

// maxParentLevels is the deepest ".." prefix a relative DSN path may use
const maxParentLevels = 3

// ValidatePath rejects empty paths, paths with null bytes and relative paths
// that climb more than a few directories.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	if strings.Contains(path, "\x00") {
		return ErrInvalidPath
	}

	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) {
		return nil
	}

	upLevels := 0
	for _, part := range strings.FieldsFunc(cleanPath, func(c rune) bool {
		return c == '/' || c == '\\'
	}) {
		if part != ".." {
			break
		}
		upLevels++
	}
	if upLevels > maxParentLevels {
		return ErrInvalidPath
	}
	return nil
}

// ValidateColumnCount checks if the number of columns is within acceptable limits
func ValidateColumnCount(columnCount int) error {
	if columnCount > MaxColumnCount {
		return ErrTooManyColumns
	}
	return nil
}

// ValidateFileCount checks if the number of files is within acceptable limits
func ValidateFileCount(fileCount int) error {
	if fileCount > MaxFilesPerDirectory {
		return ErrTooManyFiles
	}
	return nil
}

// IsDumpFileName reports whether a directory entry looks like a SQL dump:
// a visible file ending in .sql, optionally followed by a compression suffix.
func IsDumpFileName(fileName string) bool {
	if strings.HasPrefix(fileName, ".") || strings.Contains(fileName, "\x00") {
		return false
	}
	return strings.HasSuffix(strings.ToLower(removeCompressionExtensions(fileName)), ".sql")
}
