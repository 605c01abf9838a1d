package model

import (
	"errors"
	"testing"
)

func TestExportOptions(t *testing.T) {
	t.Parallel()

	opts := NewExportOptions()
	if opts.Format != OutputFormatCSV || opts.Compression != CompressionNone {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if got := opts.FileExtension(); got != ".csv" {
		t.Errorf("FileExtension() = %q", got)
	}

	opts = opts.WithFormat(OutputFormatParquet).WithCompression(CompressionZSTD)
	if got := opts.FileExtension(); got != ".parquet.zst" {
		t.Errorf("FileExtension() = %q", got)
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected OutputFormat
		wantErr  bool
	}{
		{"csv", OutputFormatCSV, false},
		{"TSV", OutputFormatTSV, false},
		{"ltsv", OutputFormatLTSV, false},
		{"parquet", OutputFormatParquet, false},
		{"xlsx", OutputFormatXLSX, false},
		{"json", OutputFormatCSV, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOutputFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseOutputFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			if got.String() != tt.expected.String() {
				t.Errorf("String() mismatch")
			}
		})
	}
}

func TestParseCompressionType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected CompressionType
		ext      string
	}{
		{"", CompressionNone, ""},
		{"gzip", CompressionGZ, ".gz"},
		{"bz2", CompressionBZ2, ".bz2"},
		{"xz", CompressionXZ, ".xz"},
		{"zstd", CompressionZSTD, ".zst"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCompressionType(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected || got.Extension() != tt.ext {
				t.Errorf("ParseCompressionType(%q) = %v (%q)", tt.input, got, got.Extension())
			}
		})
	}

	if _, err := ParseCompressionType("lz4"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDetectFromPath(t *testing.T) {
	t.Parallel()

	if got := CompressionTypeFromPath("dump.SQL.GZ"); got != CompressionGZ {
		t.Errorf("CompressionTypeFromPath = %v", got)
	}
	if got := CompressionTypeFromPath("dump.sql"); got != CompressionNone {
		t.Errorf("CompressionTypeFromPath = %v", got)
	}

	format, ok := OutputFormatFromPath("out/page.tsv.xz")
	if !ok || format != OutputFormatTSV {
		t.Errorf("OutputFormatFromPath = %v, %v", format, ok)
	}
	if _, ok := OutputFormatFromPath("out/page.json"); ok {
		t.Error("expected unknown extension")
	}
}
