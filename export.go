package mwsql

import (
	"context"
	"errors"

	"github.com/nao1215/mwsql/domain/model"
)

// Export writes the column names followed by every unconverted row to the sink.
//
// The sink is closed when Export returns. Rows are read with the given field
// reader configuration, or DefaultReaderConfig when none is given.
func (d *Dump) Export(sink RowSink, cfg ...ReaderConfig) error {
	return d.ExportContext(context.Background(), sink, cfg...)
}

// ExportContext is Export with a context that stops the export between rows.
func (d *Dump) ExportContext(ctx context.Context, sink RowSink, cfg ...ReaderConfig) (err error) {
	defer func() {
		if closeErr := sink.Close(); closeErr != nil && err == nil {
			err = NewErrorContext("export", d.path).WithTable(d.meta.Table).Error(closeErr)
		}
	}()

	if err := sink.WriteHeader(d.meta.Columns); err != nil {
		return NewErrorContext("export", d.path).WithTable(d.meta.Table).WithDetails("header").Error(err)
	}

	opts := NewRowsOptions()
	if len(cfg) > 0 {
		opts = opts.WithReaderConfig(cfg[0])
	}

	return d.forEachRow(opts, func(_ int, row Row) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink.WriteRow(row.Strings()); err != nil {
			return NewErrorContext("export", d.path).WithTable(d.meta.Table).Error(err)
		}
		return nil
	})
}

// ExportFile writes the dump to a file in the format and compression of opts.
// The file is created, or truncated when it exists.
//
// Example usage:
//
//	opts := mwsql.NewExportOptions().
//		WithFormat(mwsql.OutputFormatTSV).
//		WithCompression(mwsql.CompressionGZ)
//	err := dump.ExportFile("change_tag_def.tsv.gz", opts)
func (d *Dump) ExportFile(path string, opts ExportOptions, cfg ...ReaderConfig) error {
	return d.ExportFileContext(context.Background(), path, opts, cfg...)
}

// ExportFileContext is ExportFile with a context that stops the export between rows.
func (d *Dump) ExportFileContext(ctx context.Context, path string, opts ExportOptions, cfg ...ReaderConfig) (err error) {
	v := newValidator()
	if err := v.validateOutputPath(path); err != nil {
		return err
	}
	if err := v.validateExportOptions(opts); err != nil {
		return err
	}

	writer, cleanup, err := createCompressed(path, opts.Compression)
	if err != nil {
		return NewErrorContext("export", path).Error(err)
	}
	defer func() {
		if cleanupErr := cleanup(); cleanupErr != nil {
			err = errors.Join(err, NewErrorContext("export", path).Error(cleanupErr))
		}
	}()

	sink, err := NewRowSink(opts.Format, writer, d.tableName())
	if err != nil {
		return err
	}
	return d.ExportContext(ctx, sink, cfg...)
}

// tableName returns the declared table name, or the file name when the dump
// declares none.
func (d *Dump) tableName() string {
	if d.meta.Table != "" {
		return d.meta.Table
	}
	return model.TableFromFilePath(d.path)
}
