package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrMalformed indicates a graph that violates structural rules.
	ErrMalformed = errors.New("malformed graph")

	// ErrDecode indicates converter output that could not be decoded.
	ErrDecode = errors.New("decode error")

	// ErrUnsupportedFormat indicates a format with no registered decoder.
	ErrUnsupportedFormat = errors.New("unsupported graph format")
)

// MalformedError represents a structural violation in a graph.
// Wraps ErrMalformed for errors.Is() compatibility.
type MalformedError struct {
	Kind string // "nil_graph", "empty_id", "duplicate_id", "dangling_edge", "attribute_type"
	Msg  string
}

func (e *MalformedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return ErrMalformed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrMalformed.Error(), e.Msg)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// DecodeError represents a failure to decode converter output.
// Wraps ErrDecode for errors.Is() compatibility.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s: %v", ErrDecode.Error(), e.Format, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }
