// SPDX-License-Identifier: MPL-2.0

package runefile

import (
	"strconv"
	"strings"
)

type (
	// TypeKind discriminates the Type variants.
	TypeKind int

	// Type is a buffer type annotation attached to a stage: left for
	// downstream inference ("_"), a simple named type, or a fixed-rank
	// buffer with literal dimension sizes.
	Type struct {
		Kind TypeKind
		// Name is the named type or the buffer element type. Unset for
		// inferred types.
		Name Ident
		// Dimensions holds the buffer dimension sizes. A zero-length
		// sequence on a buffer type is a legal scalar.
		Dimensions []int
		Span       Span
	}

	// LiteralKind discriminates the Literal variants.
	LiteralKind int

	// Literal is a single scalar parameter value.
	Literal struct {
		Kind    LiteralKind
		Integer int64
		Float   float64
		Str     string
		Span    Span
	}

	// ArgumentValue is either a single literal or a list of strings.
	ArgumentValue struct {
		Literal *Literal
		List    []string
	}

	// Argument is a named parameter attached to a Model, Capability or
	// ProcBlock instruction, e.g. "--modulo 360".
	Argument struct {
		Name  Ident
		Value ArgumentValue
		Span  Span
	}
)

const (
	// TypeInferred leaves the type for downstream inference.
	TypeInferred TypeKind = iota
	// TypeNamed is a simple identifier, e.g. an element type.
	TypeNamed
	// TypeBuffer is a fixed-rank tensor type with literal dimensions.
	TypeBuffer
)

const (
	// LiteralInteger is a base-10 integer literal.
	LiteralInteger LiteralKind = iota
	// LiteralFloat is a decimal floating point literal.
	LiteralFloat
	// LiteralString is any literal that is neither an integer nor a float.
	LiteralString
)

// InferredType constructs a Type of kind TypeInferred.
func InferredType(span Span) Type {
	return Type{Kind: TypeInferred, Span: span}
}

// NamedType constructs a Type of kind TypeNamed.
func NamedType(name Ident, span Span) Type {
	return Type{Kind: TypeNamed, Name: name, Span: span}
}

// BufferType constructs a Type of kind TypeBuffer.
func BufferType(name Ident, dimensions []int, span Span) Type {
	return Type{Kind: TypeBuffer, Name: name, Dimensions: dimensions, Span: span}
}

// IsList reports whether the value is the list variant.
func (v ArgumentValue) IsList() bool { return v.Literal == nil }

// String renders the value the way it would appear in a Runefile.
func (v ArgumentValue) String() string {
	if v.Literal != nil {
		return v.Literal.String()
	}
	return "[" + strings.Join(v.List, ", ") + "]"
}

// String renders the literal the way it would appear in a Runefile.
func (l Literal) String() string {
	switch l.Kind {
	case LiteralInteger:
		return strconv.FormatInt(l.Integer, 10)
	case LiteralFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	default:
		return l.Str
	}
}
