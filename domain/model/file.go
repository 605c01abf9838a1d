package model

import "strings"

// File extensions
const (
	// ExtSQL is the extension of uncompressed dump files
	ExtSQL = ".sql"
	// ExtCSV is the CSV file extension
	ExtCSV = ".csv"
	// ExtTSV is the TSV file extension
	ExtTSV = ".tsv"
	// ExtLTSV is the LTSV file extension
	ExtLTSV = ".ltsv"
	// ExtParquet is the Parquet file extension
	ExtParquet = ".parquet"
	// ExtXLSX is the Excel XLSX file extension
	ExtXLSX = ".xlsx"
	// ExtGZ is the gzip compression extension
	ExtGZ = ".gz"
	// ExtBZ2 is the bzip2 compression extension
	ExtBZ2 = ".bz2"
	// ExtXZ is the xz compression extension
	ExtXZ = ".xz"
	// ExtZSTD is the zstd compression extension
	ExtZSTD = ".zst"
)

// CompressionTypeFromPath detects the compression type from a file name suffix
func CompressionTypeFromPath(path string) CompressionType {
	path = strings.ToLower(path)

	switch {
	case strings.HasSuffix(path, ExtGZ):
		return CompressionGZ
	case strings.HasSuffix(path, ExtBZ2):
		return CompressionBZ2
	case strings.HasSuffix(path, ExtXZ):
		return CompressionXZ
	case strings.HasSuffix(path, ExtZSTD):
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// OutputFormatFromPath detects the export format from a file name, ignoring
// any compression suffix. ok is false for unknown extensions.
func OutputFormatFromPath(path string) (format OutputFormat, ok bool) {
	path = strings.ToLower(path)
	path = strings.TrimSuffix(path, CompressionTypeFromPath(path).Extension())

	switch {
	case strings.HasSuffix(path, ExtCSV):
		return OutputFormatCSV, true
	case strings.HasSuffix(path, ExtTSV):
		return OutputFormatTSV, true
	case strings.HasSuffix(path, ExtLTSV):
		return OutputFormatLTSV, true
	case strings.HasSuffix(path, ExtParquet):
		return OutputFormatParquet, true
	case strings.HasSuffix(path, ExtXLSX):
		return OutputFormatXLSX, true
	default:
		return OutputFormatCSV, false
	}
}
