package mwsql

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/mwsql/domain/model"
)

// validator checks user supplied paths and options before any file is opened
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateDumpPath validates the path of a dump file and returns its size
func (v *validator) validateDumpPath(path string) (int64, error) {
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", model.ErrFileNotFound, path)
		}
		return 0, fmt.Errorf("failed to stat path %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("path is a directory, not a dump file: %s", path)
	}
	return info.Size(), nil
}

// validateOutputPath validates the destination of an export
func (v *validator) validateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("output path cannot be empty")
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		return fmt.Errorf("failed to stat output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory is not a directory: %s", dir)
	}
	return nil
}

// validateExportOptions rejects format and compression combinations that
// cannot be written
func (v *validator) validateExportOptions(opts model.ExportOptions) error {
	switch opts.Format {
	case model.OutputFormatCSV, model.OutputFormatTSV, model.OutputFormatLTSV:
	case model.OutputFormatParquet, model.OutputFormatXLSX:
		if opts.Compression != model.CompressionNone {
			return fmt.Errorf("%w: %s output cannot be compressed", model.ErrUnsupportedFormat, opts.Format)
		}
	default:
		return fmt.Errorf("%w: output format %v", model.ErrUnsupportedFormat, opts.Format)
	}

	if opts.Compression == model.CompressionBZ2 {
		return fmt.Errorf("%w: bzip2 compression is not supported for writing", model.ErrUnsupportedFormat)
	}
	return nil
}
