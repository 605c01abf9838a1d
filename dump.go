package mwsql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/nao1215/mwsql/domain/model"
	"github.com/nao1215/mwsql/parser"
)

// Dump is an open MediaWiki SQL dump file.
//
// Opening a dump scans the header region once for the database name, the
// table definition and the primary key. Rows are never held in memory: each
// call to Rows reads the file again from the start.
//
// Metadata is read-only after Open. The encoding is the only mutable field
// and must not be changed while a row stream is being consumed.
type Dump struct {
	path   string
	size   int64
	meta   *model.Metadata
	logger *slog.Logger

	mu       sync.Mutex
	encoding string
	kinds    []model.Kind
}

// Open opens a dump file and scans its metadata.
//
// Files ending in .gz, .bz2, .xz or .zst are decompressed transparently.
//
// Example usage:
//
//	dump, err := mwsql.Open("simplewiki-latest-change_tag_def.sql.gz")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for row, err := range dump.Rows(mwsql.NewRowsOptions().WithConvert(true)) {
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(row)
//	}
func Open(path string, opts ...OpenOptions) (*Dump, error) {
	return OpenContext(context.Background(), path, opts...)
}

// OpenContext opens a dump file and scans its metadata.
// The context cancels the metadata scan.
func OpenContext(ctx context.Context, path string, opts ...OpenOptions) (*Dump, error) {
	options := mergeOpenOptions(opts)

	size, err := newValidator().validateDumpPath(path)
	if err != nil {
		return nil, err
	}
	if _, err := lookupEncoding(options.Encoding); err != nil {
		return nil, err
	}

	dump := &Dump{
		path:     path,
		size:     size,
		meta:     model.NewMetadata(),
		logger:   options.Logger,
		encoding: options.Encoding,
	}
	if err := dump.scanMetadata(ctx); err != nil {
		return nil, err
	}

	dump.logger.Debug("scanned dump metadata",
		slog.String("path", path),
		slog.String("database", dump.meta.Database),
		slog.String("table", dump.meta.Table),
		slog.Int("columns", len(dump.meta.Columns)),
	)
	return dump, nil
}

// scanMetadata reads lines up to the first INSERT statement.
// A file without an INSERT statement is not an error.
func (d *Dump) scanMetadata(ctx context.Context) error {
	for line, err := range newLineSource(d.path, d.encoding).lines() {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		switch parser.Classify(line) {
		case parser.AttrDatabase:
			if database, ok := parser.ExtractDatabase(line); ok {
				d.meta.Database = database
			}
		case parser.AttrCreateTable:
			if table, ok := parser.ExtractTableName(line); ok {
				d.meta.Table = table
			}
		case parser.AttrColumn:
			d.addColumn(line)
		case parser.AttrPrimaryKey:
			if keys, ok := parser.ExtractPrimaryKey(line); ok {
				d.meta.PrimaryKey = keys
			}
		case parser.AttrInsert:
			return nil
		case parser.AttrNone:
		}
	}
	return nil
}

func (d *Dump) addColumn(line string) {
	name, ok := parser.ExtractColumnName(line)
	if !ok {
		return
	}
	sqlType, _ := parser.ExtractColumnType(line)

	if err := d.meta.AddColumn(name, sqlType); err != nil {
		d.logger.Warn("ignoring column definition",
			slog.String("path", d.path),
			slog.String("column", name),
			slog.String("error", err.Error()),
		)
	}
}

// Path returns the path the dump was opened from.
func (d *Dump) Path() string {
	return d.path
}

// Database returns the wiki database name, or "" when the dump does not declare one.
func (d *Dump) Database() string {
	return d.meta.Database
}

// Name returns the table name, or "" when the dump has no CREATE TABLE statement.
func (d *Dump) Name() string {
	return d.meta.Table
}

// Columns returns the column names in declaration order.
func (d *Dump) Columns() []string {
	return slices.Clone(d.meta.Columns)
}

// SQLTypes returns the declared SQL type of every column.
func (d *Dump) SQLTypes() map[string]string {
	return maps.Clone(d.meta.SQLTypes)
}

// PrimaryKey returns the primary key columns, or nil when none is declared.
func (d *Dump) PrimaryKey() []string {
	return slices.Clone(d.meta.PrimaryKey)
}

// Metadata returns a copy of the scanned metadata.
func (d *Dump) Metadata() Metadata {
	return Metadata{
		Database:   d.meta.Database,
		Table:      d.meta.Table,
		Columns:    d.Columns(),
		SQLTypes:   d.SQLTypes(),
		PrimaryKey: d.PrimaryKey(),
	}
}

// Size returns the size in bytes of the dump file when it was opened.
func (d *Dump) Size() int64 {
	return d.size
}

// String returns a short description of the dump.
func (d *Dump) String() string {
	return fmt.Sprintf("Dump(database=%s, name=%s, size=%d)", d.meta.Database, d.meta.Table, d.size)
}

// Encoding returns the text encoding used to read the dump.
func (d *Dump) Encoding() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.encoding
}

// SetEncoding changes the text encoding used by subsequent row streams.
func (d *Dump) SetEncoding(encoding string) error {
	if _, err := lookupEncoding(encoding); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.encoding = encoding
	return nil
}

// Kinds returns the kind of every column in declaration order.
// The result is computed on first use and cached.
func (d *Dump) Kinds() []Kind {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.kinds == nil {
		d.kinds = d.computeKinds()
	}
	return slices.Clone(d.kinds)
}

// KindMap returns the kind of every column keyed by column name.
func (d *Dump) KindMap() map[string]Kind {
	return parser.MapKinds(d.meta.SQLTypes)
}

// RecomputeKinds drops the cached kinds and maps the declared types again.
func (d *Dump) RecomputeKinds() []Kind {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.kinds = d.computeKinds()
	return slices.Clone(d.kinds)
}

func (d *Dump) computeKinds() []model.Kind {
	kinds := make([]model.Kind, len(d.meta.Columns))
	for i, sqlType := range d.meta.SQLTypeList() {
		kinds[i] = parser.MapKind(sqlType)
	}
	return kinds
}

// records streams the raw field strings of every row-tuple in file order.
func (d *Dump) records(cfg ReaderConfig) iter.Seq2[model.Record, error] {
	return func(yield func(model.Record, error) bool) {
		if err := cfg.Validate(); err != nil {
			yield(nil, err)
			return
		}

		lineNo := 0
		for line, err := range newLineSource(d.path, d.Encoding()).lines() {
			lineNo++
			if err != nil {
				yield(nil, err)
				return
			}
			if parser.Classify(line) != parser.AttrInsert {
				continue
			}

			for i, tuple := range parser.SplitTuples(line) {
				record, err := parser.ReadFields(tuple, cfg)
				if err != nil {
					yield(nil, NewErrorContext("read rows", d.path).
						WithTable(d.meta.Table).
						WithDetails(fmt.Sprintf("line %d, tuple %d", lineNo, i+1)).
						Error(err))
					return
				}
				if !yield(record, nil) {
					return
				}
			}
		}
	}
}

// Rows returns a lazy sequence of the rows of the dump.
//
// Each iteration opens the file again, so the sequence can be consumed any
// number of times. The file is closed when iteration ends, including when the
// consumer breaks out of the loop early. The sequence stops after the first
// error.
//
// Without options, rows hold raw strings and fields are read with
// DefaultReaderConfig. With conversion enabled, fields are cast to the kind
// of their column; a field that cannot be cast fails the stream in strict
// mode and is kept as a string otherwise, with one warning logged per row.
func (d *Dump) Rows(opts ...RowsOptions) iter.Seq2[Row, error] {
	options := resolveRowsOptions(opts)

	return func(yield func(Row, error) bool) {
		var kinds []model.Kind
		if options.Convert {
			kinds = d.Kinds()
		}

		for record, err := range d.records(options.Reader) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !options.Convert {
				if !yield(record.Row(), nil) {
					return
				}
				continue
			}

			row, unconverted, err := parser.Convert(record, kinds, options.Strict)
			if err != nil {
				yield(nil, NewErrorContext("convert row", d.path).WithTable(d.meta.Table).Error(err))
				return
			}
			if unconverted > 0 {
				d.logger.Warn("some values could not be converted",
					slog.String("table", d.meta.Table),
					slog.Int("unconverted", unconverted),
				)
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// All returns every row of the dump as raw strings.
func (d *Dump) All() iter.Seq2[Row, error] {
	return d.Rows()
}

// errStopHead ends a Head pass after n rows.
var errStopHead = errors.New("head limit reached")

// Head writes the column names followed by the first n rows.
// Fewer rows are written when the dump holds fewer than n rows.
func (d *Dump) Head(w io.Writer, n int, convert bool) error {
	if _, err := fmt.Fprintln(w, d.meta.Columns); err != nil {
		return err
	}

	err := d.forEachRow(NewRowsOptions().WithConvert(convert), func(i int, row Row) error {
		if i >= n {
			return errStopHead
		}
		_, err := fmt.Fprintln(w, []any(row))
		return err
	})
	if errors.Is(err, errStopHead) {
		return nil
	}
	return err
}

// forEachRow calls fn for every row until fn or the stream fails.
func (d *Dump) forEachRow(opts RowsOptions, fn func(i int, row Row) error) error {
	i := 0
	for row, err := range d.Rows(opts) {
		if err != nil {
			return err
		}
		if err := fn(i, row); err != nil {
			return err
		}
		i++
	}
	return nil
}
