package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned by Load when the dataset path does not exist.
	ErrFileNotFound = errors.New("dataset file not found")
	// ErrSchemaMismatch is returned when the header lacks expected columns.
	ErrSchemaMismatch = errors.New("dataset schema mismatch")
	// ErrUnsupported indicates a file format with no registered reader.
	ErrUnsupported = errors.New("unsupported dataset format")
)

// ParseError reports a cell that could not be converted to its column type.
type ParseError struct {
	Line   int // 1-based line in the source, header is line 1
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %q: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
