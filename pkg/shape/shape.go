// SPDX-License-Identifier: MPL-2.0

package shape

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrMalformed is the sentinel error for shape text that is missing its
	// brackets entirely (e.g. "f32" or "f32[1, 2").
	ErrMalformed = errors.New("malformed shape")

	// ErrBadDimension is the sentinel error wrapped by BadDimensionError.
	ErrBadDimension = errors.New("bad dimension")
)

type (
	// Shape describes a tensor's layout: an element type plus a fixed,
	// ordered sequence of non-negative dimension sizes. A zero-length
	// dimension sequence is a legal scalar. Shapes are immutable values.
	Shape struct {
		elementType ElementType
		dimensions  []int
	}

	// BadDimensionError is returned when a dimension token in shape text is
	// not a non-negative integer. It wraps both ErrBadDimension and the
	// underlying numeric parse failure.
	BadDimensionError struct {
		// Found is the offending dimension token.
		Found string
		// Reason is the underlying strconv failure, if any.
		Reason error
	}
)

// Error implements the error interface.
func (e *BadDimensionError) Error() string {
	return fmt.Sprintf("%q isn't a valid dimension", e.Found)
}

// Unwrap exposes both ErrBadDimension and the underlying parse failure to
// errors.Is / errors.As.
func (e *BadDimensionError) Unwrap() []error {
	if e.Reason != nil {
		return []error{ErrBadDimension, e.Reason}
	}
	return []error{ErrBadDimension}
}

// New constructs a Shape. The dimension slice is copied so later mutation of
// the argument can't reach into the value.
func New(elementType ElementType, dimensions ...int) Shape {
	return Shape{
		elementType: elementType,
		dimensions:  slices.Clone(dimensions),
	}
}

// ElementType returns the scalar type stored in the tensor.
func (s Shape) ElementType() ElementType { return s.elementType }

// Dimensions returns a copy of the dimension sequence.
func (s Shape) Dimensions() []int { return slices.Clone(s.dimensions) }

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s.dimensions) }

// Size returns the number of bytes this tensor takes up. The second return
// is false when the element type has no fixed width.
func (s Shape) Size() (int, bool) {
	width, ok := s.elementType.SizeOf()
	if !ok {
		return 0, false
	}
	size := width
	for _, dim := range s.dimensions {
		size *= dim
	}
	return size, true
}

// Equal reports whether two shapes have the same element type and dimensions.
func (s Shape) Equal(other Shape) bool {
	return s.elementType == other.elementType &&
		slices.Equal(s.dimensions, other.dimensions)
}

// String renders the canonical text form, e.g. "f32[1, 2, 3]". A scalar
// renders as "f32[]". Parse is the exact inverse.
func (s Shape) String() string {
	var sb strings.Builder
	sb.WriteString(string(s.elementType))
	sb.WriteByte('[')
	for i, dim := range s.dimensions {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(dim))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Parse reads the canonical text form produced by String. The prefix before
// the first '[' is the element type, the comma-separated interior of the
// brackets are the dimensions.
func Parse(s string) (Shape, error) {
	opening := strings.IndexByte(s, '[')
	if opening < 0 {
		return Shape{}, ErrMalformed
	}

	elementType, err := ParseElementType(s[:opening])
	if err != nil {
		return Shape{}, err
	}

	closing := strings.LastIndexByte(s, ']')
	if closing < opening {
		return Shape{}, ErrMalformed
	}

	interior := strings.TrimSpace(s[opening+1 : closing])
	if interior == "" {
		return New(elementType), nil
	}

	var dimensions []int
	for _, word := range strings.Split(interior, ",") {
		word = strings.TrimSpace(word)
		dim, err := strconv.Atoi(word)
		if err != nil || dim < 0 {
			return Shape{}, &BadDimensionError{Found: word, Reason: err}
		}
		dimensions = append(dimensions, dim)
	}

	return Shape{elementType: elementType, dimensions: dimensions}, nil
}
