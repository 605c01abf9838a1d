package mwsql

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readCSV(t *testing.T, r io.Reader, comma rune) [][]string {
	t.Helper()

	reader := csv.NewReader(r)
	reader.Comma = comma
	records, err := reader.ReadAll()
	require.NoError(t, err)
	return records
}

// expectedRecords returns the header and unconverted rows of a dump
func expectedRecords(t *testing.T, dump *Dump) [][]string {
	t.Helper()

	records := [][]string{dump.Columns()}
	for _, row := range collectRows(t, dump) {
		records = append(records, row.Strings())
	}
	return records
}

func TestExportCSVRoundTrip(t *testing.T) {
	t.Parallel()

	for _, path := range []string{testfileSQLGZ, pageSQL} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			dump, err := Open(path)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, dump.Export(NewCSVSink(&buf)))

			assert.Equal(t, expectedRecords(t, dump), readCSV(t, &buf, ','))
		})
	}
}

func TestExportInvalidUTF8RoundTrip(t *testing.T) {
	t.Parallel()

	path := writeDump(t, "INSERT INTO `sample` VALUES (1,'caf\xc3'),(2,'\xff\xfe');")
	dump, err := Open(path)
	require.NoError(t, err)

	want := [][]string{
		{"s_id", "s_name"},
		{"1", "caf\xc3"},
		{"2", "\xff\xfe"},
	}
	assert.Equal(t, want, expectedRecords(t, dump))

	var buf bytes.Buffer
	require.NoError(t, dump.Export(NewCSVSink(&buf)))
	assert.Equal(t, "s_id,s_name\n1,caf\xc3\n2,\xff\xfe\n", buf.String())
	assert.Equal(t, want, readCSV(t, &buf, ','))
}

func TestExportCSVContent(t *testing.T) {
	t.Parallel()

	dump, err := Open(testfileSQL)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dump.Export(NewCSVSink(&buf)))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "ctd_id,ctd_name,ctd_user_defined,ctd_count", lines[0])
	assert.Equal(t, "1,mw-replace,0,10200", lines[1])
	assert.Equal(t, "10,visualeditor-switched,0,17717", lines[10])
}

func TestExportTSV(t *testing.T) {
	t.Parallel()

	dump, err := Open(pageSQL)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dump.Export(NewTSVSink(&buf)))

	assert.Equal(t, expectedRecords(t, dump), readCSV(t, &buf, '\t'))
}

func TestExportLTSV(t *testing.T) {
	t.Parallel()

	dump, err := Open(testfileSQL)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dump.Export(NewLTSVSink(&buf)))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "ctd_id:1\tctd_name:mw-replace\tctd_user_defined:0\tctd_count:10200", lines[0])
}

func TestLTSVSinkEscaping(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewLTSVSink(&buf)
	require.NoError(t, sink.WriteHeader([]string{"a", "b"}))
	require.NoError(t, sink.WriteRow([]string{"x\ty", "line\nbreak"}))
	require.NoError(t, sink.Close())

	assert.Equal(t, "a:x\\ty\tb:line\\nbreak\n", buf.String())
	require.ErrorIs(t, sink.WriteRow([]string{"only one"}), ErrLengthMismatch)
}

func TestExportParquet(t *testing.T) {
	t.Parallel()

	dump, err := Open(pageSQL)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dump.Export(NewParquetSink(&buf)))

	pqReader, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	require.NoError(t, err)

	table, err := arrowReader.ReadTable(context.Background())
	require.NoError(t, err)
	defer table.Release()

	want := expectedRecords(t, dump)
	require.Equal(t, int64(len(want)-1), table.NumRows())
	require.Equal(t, int64(len(want[0])), table.NumCols())

	for i, name := range want[0] {
		assert.Equal(t, name, table.Schema().Field(i).Name)
	}

	titles := table.Column(2).Data().Chunk(0).(*array.String)
	assert.Equal(t, "Project_scope", titles.Value(1))
	assert.Equal(t, "mw-replace?NULL", titles.Value(4))
}

func TestExportXLSX(t *testing.T) {
	t.Parallel()

	dump, err := Open(testfileSQLGZ)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dump.Export(NewXLSXSink(&buf, dump.Name())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"change_tag_def"}, f.GetSheetList())

	rows, err := f.GetRows("change_tag_def")
	require.NoError(t, err)
	assert.Equal(t, expectedRecords(t, dump), rows)
}

func TestXLSXSheetName(t *testing.T) {
	t.Parallel()

	sink := NewXLSXSink(io.Discard, "a table name that is much longer than excel allows").(*xlsxSink)
	assert.Equal(t, "a_table_name_that_is_much_longe", sink.sheet)
	assert.Len(t, sink.sheet, maxSheetNameLength)

	sink = NewXLSXSink(io.Discard, "").(*xlsxSink)
	assert.Equal(t, "table", sink.sheet)
}

func TestNewRowSink(t *testing.T) {
	t.Parallel()

	for _, format := range []OutputFormat{OutputFormatCSV, OutputFormatTSV, OutputFormatLTSV, OutputFormatParquet, OutputFormatXLSX} {
		sink, err := NewRowSink(format, io.Discard, "t")
		require.NoError(t, err, format.String())
		assert.NotNil(t, sink)
	}

	_, err := NewRowSink(OutputFormat(99), io.Discard, "t")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		fileName    string
		options     ExportOptions
		comma       rune
		compression CompressionType
	}{
		{
			name:     "csv",
			fileName: "out.csv",
			options:  NewExportOptions(),
			comma:    ',',
		},
		{
			name:        "csv gzip",
			fileName:    "out.csv.gz",
			options:     NewExportOptions().WithCompression(CompressionGZ),
			comma:       ',',
			compression: CompressionGZ,
		},
		{
			name:        "tsv xz",
			fileName:    "out.tsv.xz",
			options:     NewExportOptions().WithFormat(OutputFormatTSV).WithCompression(CompressionXZ),
			comma:       '\t',
			compression: CompressionXZ,
		},
		{
			name:        "csv zstd",
			fileName:    "out.csv.zst",
			options:     NewExportOptions().WithCompression(CompressionZSTD),
			comma:       ',',
			compression: CompressionZSTD,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dump, err := Open(testfileSQLGZ)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), tt.fileName)
			require.NoError(t, dump.ExportFile(path, tt.options))

			reader, cleanup, err := openCompressed(path)
			require.NoError(t, err)
			defer cleanup() //nolint:errcheck

			assert.Equal(t, expectedRecords(t, dump), readCSV(t, reader, tt.comma))
		})
	}
}

func TestExportFileTruncates(t *testing.T) {
	t.Parallel()

	dump, err := Open(testfileSQL)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale data\n", 1000)), 0600))
	require.NoError(t, dump.ExportFile(path, NewExportOptions()))

	data, err := os.ReadFile(path) //nolint:gosec
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale data")
}

func TestExportFileErrors(t *testing.T) {
	t.Parallel()

	dump, err := Open(testfileSQL)
	require.NoError(t, err)

	t.Run("missing output directory", func(t *testing.T) {
		t.Parallel()

		err := dump.ExportFile(filepath.Join(t.TempDir(), "missing", "out.csv"), NewExportOptions())
		assert.Error(t, err)
	})

	t.Run("bzip2 output", func(t *testing.T) {
		t.Parallel()

		err := dump.ExportFile(filepath.Join(t.TempDir(), "out.csv.bz2"), NewExportOptions().WithCompression(CompressionBZ2))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("compressed parquet", func(t *testing.T) {
		t.Parallel()

		opts := NewExportOptions().WithFormat(OutputFormatParquet).WithCompression(CompressionGZ)
		err := dump.ExportFile(filepath.Join(t.TempDir(), "out.parquet.gz"), opts)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := dump.ExportFileContext(ctx, filepath.Join(t.TempDir(), "out.csv"), NewExportOptions())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExportUsesFileNameWithoutTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "enwiki-latest-bare.sql")
	require.NoError(t, os.WriteFile(path, []byte("INSERT INTO `x` VALUES (1);\n"), 0600))

	dump, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "enwiki-latest-bare", dump.tableName())
	assert.Equal(t, "enwiki_latest_bare", dump.SQLiteTableName())
}
