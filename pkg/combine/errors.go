package combine

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedGeometryKind = errors.New("unsupported geometry kind")
	ErrMissingGeometry         = errors.New("missing geometry")
	ErrMalformedInput          = errors.New("malformed input")
)

// Error describes why a collection was rejected. Index is the offending
// feature's position, or -1 when the collection itself is at fault.
type Error struct {
	Kind  error
	Index int
	Type  string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Index >= 0 {
		msg = fmt.Sprintf("feature %d: %s", e.Index, msg)
	}
	if e.Type != "" {
		msg += fmt.Sprintf(" %q", e.Type)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName is a short label for err suitable for metrics and API responses.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedGeometryKind):
		return "unsupported_geometry_kind"
	case errors.Is(err, ErrMissingGeometry):
		return "missing_geometry"
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	default:
		return "internal"
	}
}

func unsupported(i int, typ string) error {
	return &Error{Kind: ErrUnsupportedGeometryKind, Index: i, Type: typ}
}

func missing(i int) error {
	return &Error{Kind: ErrMissingGeometry, Index: i}
}

func malformed(i int, typ string, err error) error {
	return &Error{Kind: ErrMalformedInput, Index: i, Type: typ, Err: err}
}
