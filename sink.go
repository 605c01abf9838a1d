package mwsql

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"

	"github.com/nao1215/mwsql/domain/model"
)

// RowSink receives a header record followed by any number of row records.
//
// Close flushes buffered output. It never closes the io.Writer the sink was
// created with.
type RowSink interface {
	WriteHeader(columns []string) error
	WriteRow(record []string) error
	Close() error
}

// NewRowSink creates a sink that writes the given format to w.
// The table name is used where the format has a place for it (the XLSX sheet name).
func NewRowSink(format OutputFormat, w io.Writer, table string) (RowSink, error) {
	switch format {
	case model.OutputFormatCSV:
		return NewCSVSink(w), nil
	case model.OutputFormatTSV:
		return NewTSVSink(w), nil
	case model.OutputFormatLTSV:
		return NewLTSVSink(w), nil
	case model.OutputFormatParquet:
		return NewParquetSink(w), nil
	case model.OutputFormatXLSX:
		return NewXLSXSink(w, table), nil
	default:
		return nil, fmt.Errorf("%w: output format %v", model.ErrUnsupportedFormat, format)
	}
}

// delimitedSink writes CSV or TSV records
type delimitedSink struct {
	writer *csv.Writer
}

// NewCSVSink creates a sink writing comma separated values.
func NewCSVSink(w io.Writer) RowSink {
	return &delimitedSink{writer: csv.NewWriter(w)}
}

// NewTSVSink creates a sink writing tab separated values.
func NewTSVSink(w io.Writer) RowSink {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	return &delimitedSink{writer: writer}
}

func (s *delimitedSink) WriteHeader(columns []string) error {
	return s.writer.Write(columns)
}

func (s *delimitedSink) WriteRow(record []string) error {
	return s.writer.Write(record)
}

func (s *delimitedSink) Close() error {
	s.writer.Flush()
	return s.writer.Error()
}

// ltsvEscaper keeps labels and values on one line without extra fields
var ltsvEscaper = strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n", "\r", "\\r")

// ltsvSink writes Labeled Tab-separated Values, one "label:value" pair per field
type ltsvSink struct {
	w       io.Writer
	columns []string
	buf     strings.Builder
}

// NewLTSVSink creates a sink writing LTSV.
func NewLTSVSink(w io.Writer) RowSink {
	return &ltsvSink{w: w}
}

func (s *ltsvSink) WriteHeader(columns []string) error {
	s.columns = make([]string, len(columns))
	for i, column := range columns {
		s.columns[i] = ltsvEscaper.Replace(column)
	}
	return nil
}

func (s *ltsvSink) WriteRow(record []string) error {
	if len(record) != len(s.columns) {
		return fmt.Errorf("%w: %d fields for %d columns", model.ErrLengthMismatch, len(record), len(s.columns))
	}

	s.buf.Reset()
	for i, value := range record {
		if i > 0 {
			s.buf.WriteByte('\t')
		}
		s.buf.WriteString(s.columns[i])
		s.buf.WriteByte(':')
		s.buf.WriteString(ltsvEscaper.Replace(value))
	}
	s.buf.WriteByte('\n')

	_, err := io.WriteString(s.w, s.buf.String())
	return err
}

func (s *ltsvSink) Close() error {
	return nil
}

// parquetBatchSize is the number of rows buffered per Parquet record batch
const parquetBatchSize = 4096

// parquetSink writes every column as a UTF-8 string column
type parquetSink struct {
	w       io.Writer
	pool    memory.Allocator
	schema  *arrow.Schema
	writer  *pqarrow.FileWriter
	builder *array.RecordBuilder
	pending int
}

// NewParquetSink creates a sink writing an Apache Parquet file.
// All columns are stored as strings, the same values a CSV export holds.
func NewParquetSink(w io.Writer) RowSink {
	return &parquetSink{
		w:    w,
		pool: memory.NewGoAllocator(),
	}
}

// nopCloseWriter hides Close from the Parquet writer so that closing the
// file writer leaves the caller's io.Writer open
type nopCloseWriter struct {
	io.Writer
}

func (s *parquetSink) WriteHeader(columns []string) error {
	if len(columns) == 0 {
		return model.ErrNoColumns
	}

	fields := make([]arrow.Field, len(columns))
	for i, column := range columns {
		fields[i] = arrow.Field{Name: column, Type: arrow.BinaryTypes.String, Nullable: false}
	}
	s.schema = arrow.NewSchema(fields, nil)

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(s.pool),
	)
	writer, err := pqarrow.NewFileWriter(s.schema, nopCloseWriter{s.w}, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	s.writer = writer
	s.builder = array.NewRecordBuilder(s.pool, s.schema)
	return nil
}

func (s *parquetSink) WriteRow(record []string) error {
	if s.writer == nil {
		return errors.New("parquet header has not been written")
	}
	if len(record) != len(s.schema.Fields()) {
		return fmt.Errorf("%w: %d fields for %d columns", model.ErrLengthMismatch, len(record), len(s.schema.Fields()))
	}

	for i, value := range record {
		s.builder.Field(i).(*array.StringBuilder).Append(value)
	}
	s.pending++

	if s.pending >= parquetBatchSize {
		return s.flush()
	}
	return nil
}

func (s *parquetSink) flush() error {
	if s.pending == 0 {
		return nil
	}
	rec := s.builder.NewRecord()
	defer rec.Release()
	s.pending = 0

	if err := s.writer.Write(rec); err != nil {
		return fmt.Errorf("failed to write parquet record batch: %w", err)
	}
	return nil
}

func (s *parquetSink) Close() error {
	if s.writer == nil {
		return nil
	}
	defer s.builder.Release()

	if err := s.flush(); err != nil {
		_ = s.writer.Close()
		return err
	}
	return s.writer.Close()
}

// maxSheetNameLength is the longest sheet name Excel accepts
const maxSheetNameLength = 31

// xlsxSink streams rows into a single worksheet
type xlsxSink struct {
	w      io.Writer
	file   *excelize.File
	sheet  string
	stream *excelize.StreamWriter
	row    int
}

// NewXLSXSink creates a sink writing an Excel workbook with one sheet named after the table.
func NewXLSXSink(w io.Writer, table string) RowSink {
	sheet := model.NewTableName(table).Sanitize().Truncate(maxSheetNameLength).String()
	return &xlsxSink{
		w:     w,
		sheet: sheet,
		row:   1,
	}
}

func (s *xlsxSink) WriteHeader(columns []string) error {
	s.file = excelize.NewFile()
	if err := s.file.SetSheetName("Sheet1", s.sheet); err != nil {
		return fmt.Errorf("failed to name sheet %s: %w", s.sheet, err)
	}

	stream, err := s.file.NewStreamWriter(s.sheet)
	if err != nil {
		return fmt.Errorf("failed to create xlsx stream writer: %w", err)
	}
	s.stream = stream
	return s.writeCells(columns)
}

func (s *xlsxSink) WriteRow(record []string) error {
	if s.stream == nil {
		return errors.New("xlsx header has not been written")
	}
	return s.writeCells(record)
}

func (s *xlsxSink) writeCells(values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}

	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := s.stream.SetRow(cell, cells); err != nil {
		return fmt.Errorf("failed to write xlsx row %d: %w", s.row, err)
	}
	s.row++
	return nil
}

func (s *xlsxSink) Close() error {
	if s.file == nil {
		return nil
	}
	defer s.file.Close() //nolint:errcheck // in-memory workbook

	if s.stream == nil {
		return nil
	}
	if err := s.stream.Flush(); err != nil {
		return fmt.Errorf("failed to flush xlsx stream: %w", err)
	}
	if err := s.file.Write(s.w); err != nil {
		return fmt.Errorf("failed to write xlsx workbook: %w", err)
	}
	return nil
}
