package mwsql

import (
	"log/slog"

	"github.com/nao1215/mwsql/domain/model"
	"github.com/nao1215/mwsql/parser"
)

type (
	// Row is one converted or unconverted dump row
	Row = model.Row
	// Record is one unconverted dump row
	Record = model.Record
	// Kind is the reduced scalar category of a column
	Kind = model.Kind
	// Metadata describes the table stored in a dump file
	Metadata = model.Metadata
	// ReaderConfig configures the field reader
	ReaderConfig = parser.ReaderConfig
	// ExportOptions configures file export
	ExportOptions = model.ExportOptions
	// OutputFormat represents the export file format
	OutputFormat = model.OutputFormat
	// CompressionType represents the compression type
	CompressionType = model.CompressionType
)

const (
	// KindString is a column read as text
	KindString = model.KindString
	// KindInteger is a column read as int64 (or uint64)
	KindInteger = model.KindInteger
	// KindFloat is a column read as float64
	KindFloat = model.KindFloat

	// OutputFormatCSV represents CSV output format
	OutputFormatCSV = model.OutputFormatCSV
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV = model.OutputFormatTSV
	// OutputFormatLTSV represents LTSV output format
	OutputFormatLTSV = model.OutputFormatLTSV
	// OutputFormatParquet represents Parquet output format
	OutputFormatParquet = model.OutputFormatParquet
	// OutputFormatXLSX represents Excel XLSX output format
	OutputFormatXLSX = model.OutputFormatXLSX

	// CompressionNone represents no compression
	CompressionNone = model.CompressionNone
	// CompressionGZ represents gzip compression
	CompressionGZ = model.CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2 = model.CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ = model.CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD = model.CompressionZSTD
)

var (
	// NewExportOptions creates default export options (CSV, no compression)
	NewExportOptions = model.NewExportOptions
	// DefaultReaderConfig returns the field reader settings for MediaWiki dumps
	DefaultReaderConfig = parser.DefaultReaderConfig
)

// OpenOptions configures how a dump is opened.
//
// Example:
//
//	opts := mwsql.NewOpenOptions().
//		WithEncoding("latin-1").
//		WithLogger(logger)
type OpenOptions struct {
	// Encoding is the text encoding of the dump. Empty means UTF-8.
	Encoding string
	// Logger receives scan details and conversion warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// NewOpenOptions creates default open options (UTF-8, default logger).
func NewOpenOptions() OpenOptions {
	return OpenOptions{
		Encoding: DefaultEncoding,
	}
}

// WithEncoding sets the text encoding of the dump.
func (o OpenOptions) WithEncoding(encoding string) OpenOptions {
	o.Encoding = encoding
	return o
}

// WithLogger sets the logger used by the dump.
func (o OpenOptions) WithLogger(logger *slog.Logger) OpenOptions {
	o.Logger = logger
	return o
}

func mergeOpenOptions(opts []OpenOptions) OpenOptions {
	merged := NewOpenOptions()
	for _, opt := range opts {
		if opt.Encoding != "" {
			merged.Encoding = opt.Encoding
		}
		if opt.Logger != nil {
			merged.Logger = opt.Logger
		}
	}
	if merged.Logger == nil {
		merged.Logger = slog.Default()
	}
	return merged
}

// RowsOptions configures a row stream.
//
// A zero Reader is replaced by DefaultReaderConfig.
type RowsOptions struct {
	// Convert casts every field to the kind of its column
	Convert bool
	// Strict makes conversion failures abort the stream
	Strict bool
	// Reader configures the field reader
	Reader ReaderConfig
}

// NewRowsOptions creates default row options: no conversion, lenient
// conversion policy and the MediaWiki field reader settings.
func NewRowsOptions() RowsOptions {
	return RowsOptions{
		Reader: parser.DefaultReaderConfig(),
	}
}

// WithConvert enables or disables conversion of fields to native values.
func (o RowsOptions) WithConvert(convert bool) RowsOptions {
	o.Convert = convert
	return o
}

// WithStrict enables or disables strict conversion.
func (o RowsOptions) WithStrict(strict bool) RowsOptions {
	o.Strict = strict
	return o
}

// WithReaderConfig sets the field reader configuration.
func (o RowsOptions) WithReaderConfig(cfg ReaderConfig) RowsOptions {
	o.Reader = cfg
	return o
}

func resolveRowsOptions(opts []RowsOptions) RowsOptions {
	if len(opts) == 0 {
		return NewRowsOptions()
	}
	resolved := opts[len(opts)-1]
	if resolved.Reader == (ReaderConfig{}) {
		resolved.Reader = parser.DefaultReaderConfig()
	}
	return resolved
}
