package rates

import (
	"errors"
	"fmt"
	"strings"

	"premium-calc/internal/model"
)

// ErrNoSources is returned when there is nothing to build a repository from.
var ErrNoSources = errors.New("no rate sources")

// EncodingError means no decoder in the fallback list could read a source.
type EncodingError struct {
	Source string
	// Attempts holds one "<encoding>: <reason>" entry per decoder tried, in order.
	Attempts []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("rate source %q could not be read with any supported encoding (%s)",
		e.Source, strings.Join(e.Attempts, "; "))
}

func (e *EncodingError) Code() string { return "ENCODING_ERROR" }

// ParseError is a CSV syntax error in a source that decoded cleanly.
type ParseError struct {
	Source   string
	Encoding string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rate source %q (%s): %v", e.Source, e.Encoding, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Code() string { return "PARSE_ERROR" }

// SchemaError lists required columns that are absent. Source is empty when the columns are missing
// from every source.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("rate source %q is missing columns: %s", e.Source, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("rate tables are missing columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Code() string { return "SCHEMA_ERROR" }

// DataTypeError reports rows whose Column value cannot be coerced. Rows are "source:line" references.
type DataTypeError struct {
	Column string
	Reason string
	Rows   []string
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("%d row(s) have %s %s: %s", len(e.Rows), e.Reason, e.Column, strings.Join(e.Rows, ", "))
}

func (e *DataTypeError) Code() string { return "DATA_TYPE_ERROR" }

// DataTypeErrors returns every *DataTypeError in err's tree, following joined errors, in order.
func DataTypeErrors(err error) []*DataTypeError {
	switch e := err.(type) {
	case *DataTypeError:
		return []*DataTypeError{e}
	case interface{ Unwrap() []error }:
		var out []*DataTypeError
		for _, inner := range e.Unwrap() {
			out = append(out, DataTypeErrors(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		return DataTypeErrors(e.Unwrap())
	}
	return nil
}

// DuplicateRateError is raised when two rows claim the same (product, sex, age).
type DuplicateRateError struct {
	ProductCode string
	Sex         model.Sex
	Age         int
	First       string
	Second      string
}

func (e *DuplicateRateError) Error() string {
	return fmt.Sprintf("duplicate rate for product %s sex %s age %d (%s and %s)",
		e.ProductCode, e.Sex, e.Age, e.First, e.Second)
}

func (e *DuplicateRateError) Code() string { return "DUPLICATE_RATE" }
