package parheader

import (
	"errors"
	"fmt"
)

// ParseReason classifies why a header line could not be parsed.
type ParseReason int

const (
	// UnknownField means a general-info key is not part of the schema
	UnknownField ParseReason = iota

	// BadValue means a token could not be converted to the declared type
	BadValue

	// TooFewFields means an image-definition row ran out of tokens before
	// the schema was satisfied
	TooFewFields
)

// String returns a short label for the reason.
func (r ParseReason) String() string {
	switch r {
	case UnknownField:
		return "unknown field"
	case BadValue:
		return "bad value"
	case TooFewFields:
		return "too few fields"
	default:
		return fmt.Sprintf("parse reason %d", int(r))
	}
}

// ParseError reports a malformed header line. It names the offending field
// and value and the 1-based line number in the header stream.
type ParseError struct {
	Reason ParseReason
	Line   int
	Field  string
	Value  string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("par header line %d: %s", e.Line, e.Reason)
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(": value %q", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying conversion error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// InconsistentHeaderError reports a field that is expected to be homogeneous
// across the image series but is not, or a count that contradicts what the
// general information section declares.
type InconsistentHeaderError struct {
	// Field is the image-definition field that varies or mismatches
	Field string

	// Detail describes the conflicting values
	Detail string
}

// Error implements the error interface.
func (e *InconsistentHeaderError) Error() string {
	return fmt.Sprintf("inconsistent par header: field %q: %s", e.Field, e.Detail)
}

// ErrMissingField is returned by GeneralInfo accessors when the header did
// not contain the requested general-info line.
var ErrMissingField = errors.New("general info field not present in header")

// ErrUnknownColumn is returned by ImageDefTable accessors for names outside
// the image-definition schema.
var ErrUnknownColumn = errors.New("unknown image definition field")
