package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/mwsql/domain/model"
)

// substrings of a declared SQL type that select the float kind
var floatTypeMarkers = []string{"float", "double", "decimal", "numeric"}

// MapKind maps a declared SQL type to a kind.
//
//	"int(10) unsigned NOT NULL"  -> KindInteger (also tinyint, bigint, ...)
//	"double unsigned NOT NULL"   -> KindFloat   (also float, decimal, numeric)
//	anything else                -> KindString
func MapKind(sqlType string) model.Kind {
	if strings.Contains(sqlType, "int") {
		return model.KindInteger
	}
	for _, marker := range floatTypeMarkers {
		if strings.Contains(sqlType, marker) {
			return model.KindFloat
		}
	}
	return model.KindString
}

// MapKinds maps every column's declared SQL type to a kind.
func MapKinds(sqlTypes map[string]string) map[string]model.Kind {
	kinds := make(map[string]model.Kind, len(sqlTypes))
	for column, sqlType := range sqlTypes {
		kinds[column] = MapKind(sqlType)
	}
	return kinds
}

// ConversionError describes a field that could not be cast to its kind.
type ConversionError struct {
	// Index is the zero-based field position
	Index int
	// Value is the raw field
	Value string
	// Kind is the target kind
	Kind model.Kind
	// Err is the underlying parse error
	Err error
}

// Error implements error
func (e *ConversionError) Error() string {
	return fmt.Sprintf("mwsql: field %d: cannot convert %q to %s: %v", e.Index, e.Value, e.Kind, e.Err)
}

// Unwrap returns ErrConversion so callers can use errors.Is
func (e *ConversionError) Unwrap() []error {
	return []error{model.ErrConversion, e.Err}
}

// castFunc converts one non-empty field
type castFunc func(string) (any, error)

var casts = map[model.Kind]castFunc{
	model.KindInteger: castInteger,
	model.KindFloat:   castFloat,
	model.KindString:  castString,
}

func castInteger(v string) (any, error) {
	v = strings.TrimSpace(v)
	i, err := strconv.ParseInt(v, 10, 64)
	if err == nil {
		return i, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		// unsigned bigint columns can exceed int64
		if u, uerr := strconv.ParseUint(v, 10, 64); uerr == nil {
			return u, nil
		}
	}
	return nil, err
}

func castFloat(v string) (any, error) {
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

func castString(v string) (any, error) {
	return v, nil
}

// Convert casts each value to the kind at the same position.
//
// Empty values encode SQL NULL and are never converted. When the lengths of
// values and kinds differ, Convert fails with ErrLengthMismatch in strict mode
// and returns the values unchanged otherwise. A value that cannot be cast fails
// the whole row in strict mode; otherwise it is kept as a string and counted
// in unconverted.
func Convert(values []string, kinds []model.Kind, strict bool) (row model.Row, unconverted int, err error) {
	if len(values) != len(kinds) {
		if !strict {
			return model.NewRecord(values).Row(), 0, nil
		}
		return nil, 0, fmt.Errorf("%w: %d values, %d kinds", model.ErrLengthMismatch, len(values), len(kinds))
	}

	row = make(model.Row, len(values))
	for i, value := range values {
		if value == "" {
			row[i] = value
			continue
		}

		cast, ok := casts[kinds[i]]
		if !ok {
			cast = castString
		}

		converted, castErr := cast(value)
		if castErr != nil {
			if strict {
				return nil, 0, &ConversionError{Index: i, Value: value, Kind: kinds[i], Err: castErr}
			}
			row[i] = value
			unconverted++
			continue
		}
		row[i] = converted
	}
	return row, unconverted, nil
}
