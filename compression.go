package mwsql

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/nao1215/mwsql/domain/model"
)

// decoder wraps a compressed dump stream. The returned function releases the
// decoder's resources; it does not close r.
type decoder func(r io.Reader) (io.Reader, func() error, error)

// encoder wraps an export destination. The returned function flushes the
// trailing compressed block; it does not close w.
type encoder func(w io.Writer) (io.Writer, func() error, error)

func noopCleanup() error { return nil }

// Wikimedia publishes dumps as .gz, older runs as .bz2, and mirrors
// recompress them as .xz or .zst.
var decoders = map[CompressionType]decoder{
	CompressionNone: func(r io.Reader) (io.Reader, func() error, error) {
		return r, noopCleanup, nil
	},
	CompressionGZ: func(r io.Reader) (io.Reader, func() error, error) {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("dump is not valid gzip: %w", err)
		}
		return zr, zr.Close, nil
	},
	CompressionBZ2: func(r io.Reader) (io.Reader, func() error, error) {
		return bzip2.NewReader(r), noopCleanup, nil
	},
	CompressionXZ: func(r io.Reader) (io.Reader, func() error, error) {
		zr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("dump is not valid xz: %w", err)
		}
		return zr, noopCleanup, nil
	},
	CompressionZSTD: func(r io.Reader) (io.Reader, func() error, error) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("dump is not valid zstd: %w", err)
		}
		return zr, func() error {
			zr.Close()
			return nil
		}, nil
	},
}

// bzip2 is read-only.
var encoders = map[CompressionType]encoder{
	CompressionNone: func(w io.Writer) (io.Writer, func() error, error) {
		return w, noopCleanup, nil
	},
	CompressionGZ: func(w io.Writer) (io.Writer, func() error, error) {
		zw := gzip.NewWriter(w)
		return zw, zw.Close, nil
	},
	CompressionXZ: func(w io.Writer) (io.Writer, func() error, error) {
		zw, err := xz.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start xz stream: %w", err)
		}
		return zw, zw.Close, nil
	},
	CompressionZSTD: func(w io.Writer) (io.Writer, func() error, error) {
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start zstd stream: %w", err)
		}
		return zw, zw.Close, nil
	},
}

// decompressDump wraps r with the decoder for c.
func decompressDump(r io.Reader, c CompressionType) (io.Reader, func() error, error) {
	dec, ok := decoders[c]
	if !ok {
		return nil, nil, fmt.Errorf("%w: cannot read %v compressed dumps", model.ErrUnsupportedFormat, c)
	}
	return dec(r)
}

// compressExport wraps w with the encoder for c.
func compressExport(w io.Writer, c CompressionType) (io.Writer, func() error, error) {
	enc, ok := encoders[c]
	if !ok {
		return nil, nil, fmt.Errorf("%w: cannot write %v compressed exports", model.ErrUnsupportedFormat, c)
	}
	return enc(w)
}

// openCompressed opens a dump and picks the decoder from its suffix
// (enwiki-latest-page.sql.gz is read as gzip). The cleanup function
// releases the decoder and closes the file.
func openCompressed(path string) (io.Reader, func() error, error) {
	file, err := os.Open(path) //nolint:gosec // dump paths come from the caller
	if err != nil {
		return nil, nil, err
	}

	reader, release, err := decompressDump(file, model.CompressionTypeFromPath(path))
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return reader, func() error {
		return errors.Join(release(), file.Close())
	}, nil
}

// createCompressed creates (or truncates) an export file. The cleanup
// function ends the compressed stream, then syncs and closes the file.
func createCompressed(path string, c CompressionType) (io.Writer, func() error, error) {
	file, err := os.Create(path) //nolint:gosec // export paths come from the caller
	if err != nil {
		return nil, nil, err
	}

	writer, flush, err := compressExport(file, c)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return writer, func() error {
		if err := flush(); err != nil {
			_ = file.Close()
			return err
		}
		return errors.Join(file.Sync(), file.Close())
	}, nil
}
