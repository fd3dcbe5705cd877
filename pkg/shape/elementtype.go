// SPDX-License-Identifier: MPL-2.0

package shape

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownElementType is the sentinel error wrapped by UnknownElementTypeError.
var ErrUnknownElementType = errors.New("unknown element type")

type (
	// ElementType identifies the scalar type stored in a tensor buffer.
	ElementType string

	// UnknownElementTypeError is returned when text names an element type
	// that is not part of the supported set. It wraps ErrUnknownElementType
	// for errors.Is() compatibility.
	UnknownElementTypeError struct {
		// Found is the offending element type text.
		Found string
	}
)

// The supported element types. All except Utf8 have a fixed byte width.
const (
	U8   ElementType = "u8"
	I8   ElementType = "i8"
	U16  ElementType = "u16"
	I16  ElementType = "i16"
	U32  ElementType = "u32"
	I32  ElementType = "i32"
	F32  ElementType = "f32"
	U64  ElementType = "u64"
	I64  ElementType = "i64"
	F64  ElementType = "f64"
	Utf8 ElementType = "utf8"
)

// elementWidths maps each fixed-width element type to its byte width.
// Utf8 is deliberately absent: strings have no fixed footprint.
var elementWidths = map[ElementType]int{
	U8:  1,
	I8:  1,
	U16: 2,
	I16: 2,
	U32: 4,
	I32: 4,
	F32: 4,
	U64: 8,
	I64: 8,
	F64: 8,
}

// Error implements the error interface.
func (e *UnknownElementTypeError) Error() string {
	return fmt.Sprintf("couldn't recognise the %q element type", e.Found)
}

// Unwrap returns ErrUnknownElementType so callers can use errors.Is.
func (e *UnknownElementTypeError) Unwrap() error { return ErrUnknownElementType }

// ParseElementType parses text into an ElementType. Matching is
// case-insensitive; the canonical form is lowercase.
func ParseElementType(s string) (ElementType, error) {
	t := ElementType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case U8, I8, U16, I16, U32, I32, F32, U64, I64, F64, Utf8:
		return t, nil
	default:
		return "", &UnknownElementTypeError{Found: s}
	}
}

// SizeOf returns the byte width of a single element. The second return is
// false when the element type has no fixed width (Utf8).
func (t ElementType) SizeOf() (int, bool) {
	width, ok := elementWidths[t]
	return width, ok
}

// String returns the canonical lowercase name of the element type.
func (t ElementType) String() string { return string(t) }
