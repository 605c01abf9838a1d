package mwsql

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/nao1215/mwsql/domain/model"
)

// DefaultEncoding is the text encoding of dumps published by Wikimedia.
const DefaultEncoding = "utf-8"

// lookupEncoding resolves an encoding name. A nil encoding means the input
// is read as UTF-8 without transformation.
func lookupEncoding(name string) (encoding.Encoding, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "latin_1":
		normalized = "latin1"
	}

	if enc, err := ianaindex.IANA.Encoding(normalized); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(normalized); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedEncoding, name)
}

// lineSource yields the lines of a dump file. Every call to lines opens the
// file again, so the sequence can be iterated any number of times.
type lineSource struct {
	path     string
	encoding string
}

func newLineSource(path, encodingName string) *lineSource {
	return &lineSource{path: path, encoding: encodingName}
}

// open returns a reader over the decompressed and decoded file content.
func (s *lineSource) open() (io.Reader, func() error, error) {
	enc, err := lookupEncoding(s.encoding)
	if err != nil {
		return nil, nil, err
	}

	reader, cleanup, err := openCompressed(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, NewErrorContext("open", s.path).Error(fmt.Errorf("%w: %w", model.ErrFileNotFound, err))
		}
		return nil, nil, NewErrorContext("open", s.path).Error(err)
	}

	if enc != nil {
		reader = transform.NewReader(reader, enc.NewDecoder())
	}
	return reader, cleanup, nil
}

// lines yields every line of the file without its trailing line break.
// The file is closed when the sequence ends or the consumer stops early.
func (s *lineSource) lines() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		reader, cleanup, err := s.open()
		if err != nil {
			yield("", err)
			return
		}
		defer cleanup() //nolint:errcheck // read-only handle

		br := bufio.NewReader(reader)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				if !yield(strings.TrimRight(line, "\r\n"), nil) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield("", NewErrorContext("read", s.path).Error(err))
				}
				return
			}
		}
	}
}
