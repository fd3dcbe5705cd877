// SPDX-License-Identifier: MPL-2.0

package shape

import (
	"errors"
	"testing"
)

var shapeFixtures = []struct {
	shape Shape
	text  string
}{
	{New(F32, 1, 2, 3), "f32[1, 2, 3]"},
	{New(U8, 42), "u8[42]"},
	{New(I16), "i16[]"},
	{New(Utf8, 1), "utf8[1]"},
}

func TestShapeFormat(t *testing.T) {
	for _, fixture := range shapeFixtures {
		got := fixture.shape.String()
		if got != fixture.text {
			t.Errorf("String() = %q, want %q", got, fixture.text)
		}
	}
}

func TestShapeParse(t *testing.T) {
	for _, fixture := range shapeFixtures {
		got, err := Parse(fixture.text)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", fixture.text, err)
		}
		if !got.Equal(fixture.shape) {
			t.Errorf("Parse(%q) = %v, want %v", fixture.text, got, fixture.shape)
		}
	}
}

func TestShapeRoundTrip(t *testing.T) {
	for _, fixture := range shapeFixtures {
		got, err := Parse(fixture.shape.String())
		if err != nil {
			t.Fatalf("Parse(String()) returned error for %v: %v", fixture.shape, err)
		}
		if !got.Equal(fixture.shape) {
			t.Errorf("round trip changed %v into %v", fixture.shape, got)
		}
	}
}

func TestShapeParseWithWhitespace(t *testing.T) {
	got, err := Parse("  f32 [ 1,2,  3 ]")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if want := New(F32, 1, 2, 3); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestShapeParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"no brackets", "f32", ErrMalformed},
		{"unclosed bracket", "f32[1, 2", ErrMalformed},
		{"unknown element type", "complex64[2]", ErrUnknownElementType},
		{"word dimension", "f32[one]", ErrBadDimension},
		{"negative dimension", "f32[-1]", ErrBadDimension},
		{"empty dimension", "f32[1, , 2]", ErrBadDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestUnknownElementTypeNamesOffendingText(t *testing.T) {
	_, err := Parse("complex64[2]")

	var unknown *UnknownElementTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownElementTypeError, got %v", err)
	}
	if unknown.Found != "complex64" {
		t.Errorf("Found = %q, want %q", unknown.Found, "complex64")
	}
}

func TestBadDimensionWrapsNumericFailure(t *testing.T) {
	_, err := Parse("f32[1, lots, 3]")

	var bad *BadDimensionError
	if !errors.As(err, &bad) {
		t.Fatalf("expected BadDimensionError, got %v", err)
	}
	if bad.Found != "lots" {
		t.Errorf("Found = %q, want %q", bad.Found, "lots")
	}
	if bad.Reason == nil {
		t.Error("expected the underlying numeric parse failure to be preserved")
	}
}

func TestShapeSize(t *testing.T) {
	tests := []struct {
		shape Shape
		size  int
		fixed bool
	}{
		{New(F32, 1, 2, 3), 24, true},
		{New(U8, 42), 42, true},
		{New(F64), 8, true},
		{New(I16, 0, 5), 0, true},
		{New(Utf8, 3), 0, false},
	}

	for _, tt := range tests {
		size, fixed := tt.shape.Size()
		if size != tt.size || fixed != tt.fixed {
			t.Errorf("%v.Size() = (%d, %t), want (%d, %t)", tt.shape, size, fixed, tt.size, tt.fixed)
		}
	}
}

func TestDimensionsAreCopied(t *testing.T) {
	dims := []int{1, 2}
	s := New(F32, dims...)
	dims[0] = 99

	if got := s.Dimensions(); got[0] != 1 {
		t.Errorf("mutating the input slice leaked into the shape: %v", got)
	}

	s.Dimensions()[1] = 99
	if got := s.Dimensions(); got[1] != 2 {
		t.Errorf("mutating the returned slice leaked into the shape: %v", got)
	}
}
