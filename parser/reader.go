package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/mwsql/domain/model"
)

// ReaderConfig controls how a row-tuple is split into fields.
// The zero value is not usable; start from DefaultReaderConfig.
type ReaderConfig struct {
	// Delimiter separates fields
	Delimiter rune
	// Escape removes any special meaning from the following character.
	// Zero disables escaping.
	Escape rune
	// Quote encloses fields that may contain the delimiter. Zero disables quoting.
	Quote rune
	// DoubleQuote makes a doubled quote inside a quoted field stand for one
	// quote. When false, a quote is embedded by prefixing it with Escape.
	DoubleQuote bool
	// Strict turns malformed quoting into an error instead of best-effort recovery
	Strict bool
}

// DefaultReaderConfig returns the configuration matching MediaWiki dumps:
// comma delimiter, backslash escape, single quote, no quote doubling, strict.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Delimiter:   ',',
		Escape:      '\\',
		Quote:       '\'',
		DoubleQuote: false,
		Strict:      true,
	}
}

// WithDelimiter sets the field delimiter
func (c ReaderConfig) WithDelimiter(r rune) ReaderConfig {
	c.Delimiter = r
	return c
}

// WithEscape sets the escape character
func (c ReaderConfig) WithEscape(r rune) ReaderConfig {
	c.Escape = r
	return c
}

// WithQuote sets the quote character
func (c ReaderConfig) WithQuote(r rune) ReaderConfig {
	c.Quote = r
	return c
}

// WithDoubleQuote sets whether doubled quotes are accepted inside quoted fields
func (c ReaderConfig) WithDoubleQuote(b bool) ReaderConfig {
	c.DoubleQuote = b
	return c
}

// WithStrict sets whether malformed quoting is an error
func (c ReaderConfig) WithStrict(b bool) ReaderConfig {
	c.Strict = b
	return c
}

// Validate checks that the special characters are usable and distinct.
func (c ReaderConfig) Validate() error {
	if c.Delimiter == 0 {
		return fmt.Errorf("%w: delimiter must be set", model.ErrInvalidReaderConfig)
	}
	if c.Quote != 0 && c.Quote == c.Delimiter {
		return fmt.Errorf("%w: quote and delimiter are both %q", model.ErrInvalidReaderConfig, c.Delimiter)
	}
	if c.Escape != 0 && (c.Escape == c.Delimiter || c.Escape == c.Quote) {
		return fmt.Errorf("%w: escape %q collides with delimiter or quote", model.ErrInvalidReaderConfig, c.Escape)
	}
	if c.Quote == 0 && c.DoubleQuote {
		return fmt.Errorf("%w: double quoting requires a quote character", model.ErrInvalidReaderConfig)
	}
	return nil
}

type readState int

const (
	stateStartField readState = iota
	stateInField
	stateEscaped
	stateInQuoted
	stateEscapedInQuoted
	stateQuoteInQuoted
)

// ReadFields splits one row-tuple into its fields.
//
// The rules follow a classic delimited-record reader. A quoted field may
// contain the delimiter, the escape character adds the following character
// literally, and characters after a closing quote are appended to the field.
// With DoubleQuote, a doubled quote inside a quoted field is one literal quote.
//
// Field bytes are copied unchanged, so invalid UTF-8 in binary columns
// survives. An empty tuple is a single empty field.
func ReadFields(tuple string, cfg ReaderConfig) (model.Record, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fields := make(model.Record, 0, strings.Count(tuple, string(cfg.Delimiter))+1)
	var field strings.Builder
	state := stateStartField

	saveField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}

	for pos := 0; pos < len(tuple); {
		r, size := utf8.DecodeRuneInString(tuple[pos:])
		raw := tuple[pos : pos+size]
		offset := pos
		pos += size

		switch state {
		case stateStartField:
			switch {
			case cfg.Quote != 0 && r == cfg.Quote:
				state = stateInQuoted
			case cfg.Escape != 0 && r == cfg.Escape:
				state = stateEscaped
			case r == cfg.Delimiter:
				saveField()
			default:
				field.WriteString(raw)
				state = stateInField
			}

		case stateInField:
			switch {
			case cfg.Escape != 0 && r == cfg.Escape:
				state = stateEscaped
			case r == cfg.Delimiter:
				saveField()
				state = stateStartField
			default:
				field.WriteString(raw)
			}

		case stateEscaped:
			field.WriteString(raw)
			state = stateInField

		case stateInQuoted:
			switch {
			case cfg.Escape != 0 && r == cfg.Escape:
				state = stateEscapedInQuoted
			case r == cfg.Quote:
				if cfg.DoubleQuote {
					state = stateQuoteInQuoted
				} else {
					state = stateInField
				}
			default:
				field.WriteString(raw)
			}

		case stateEscapedInQuoted:
			field.WriteString(raw)
			state = stateInQuoted

		case stateQuoteInQuoted:
			switch {
			case r == cfg.Quote:
				field.WriteString(raw)
				state = stateInQuoted
			case r == cfg.Delimiter:
				saveField()
				state = stateStartField
			case cfg.Strict:
				return nil, fmt.Errorf("%w: delimiter expected after quote at offset %d", model.ErrQuoting, offset)
			default:
				field.WriteString(raw)
				state = stateInField
			}
		}
	}

	switch state {
	case stateInQuoted, stateEscapedInQuoted:
		if cfg.Strict {
			return nil, fmt.Errorf("%w: unexpected end of data inside quoted field", model.ErrQuoting)
		}
	case stateEscaped:
		if cfg.Strict {
			return nil, fmt.Errorf("%w: unexpected end of data after escape character", model.ErrQuoting)
		}
		field.WriteRune(cfg.Escape)
	}
	saveField()

	return fields, nil
}

// Parse splits an INSERT INTO statement into records, one per row-tuple,
// in statement order.
func Parse(line string, cfg ReaderConfig) ([]model.Record, error) {
	tuples := SplitTuples(line)
	records := make([]model.Record, 0, len(tuples))
	for i, tuple := range tuples {
		record, err := ReadFields(tuple, cfg)
		if err != nil {
			return nil, fmt.Errorf("tuple %d: %w", i+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}
