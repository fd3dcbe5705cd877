// SPDX-License-Identifier: MPL-2.0

package runefile

import "fmt"

// Span is a half-open byte range [Start, End) into the original source text.
// Spans exist purely for diagnostics; they never participate in equality of
// the nodes that carry them.
type Span struct {
	Start int
	End   int
}

// NewSpan constructs a Span covering [start, end).
func NewSpan(start, end int) Span { return Span{Start: start, End: end} }

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	merged := s
	if other.Start < merged.Start {
		merged.Start = other.Start
	}
	if other.End > merged.End {
		merged.End = other.End
	}
	return merged
}

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start }

// String renders the span as "start..end".
func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Start, s.End) }

// Text returns the region of src covered by the span, guarding against
// spans that fall outside the source (a defect, not user input).
func (s Span) Text(src string) string {
	if s.Start < 0 || s.End > len(src) || s.Start > s.End {
		return ""
	}
	return src[s.Start:s.End]
}
