package core

import (
	"cmp"
	"fmt"
)

// =============================================================================
// Range
// =============================================================================

// Range is a half-open byte span [Begin, End) into a file's source text.
type Range struct {
	Begin int `json:"begin" msgpack:"begin"`
	End   int `json:"end" msgpack:"end"`
}

// NewRange builds a Range, swapping the bounds if they are reversed.
func NewRange(begin, end int) Range {
	if end < begin {
		begin, end = end, begin
	}
	return Range{Begin: begin, End: end}
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Begin
}

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Begin == r.End
}

// Contains reports whether pos lies inside the range.
func (r Range) Contains(pos int) bool {
	return r.Begin <= pos && pos < r.End
}

// Encloses reports whether other lies entirely inside r.
func (r Range) Encloses(other Range) bool {
	return r.Begin <= other.Begin && other.End <= r.End
}

// Overlaps reports whether the two ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Begin < other.End && other.Begin < r.End
}

// Compare orders ranges lexicographically by (Begin, End).
func (r Range) Compare(other Range) int {
	if c := cmp.Compare(r.Begin, other.Begin); c != 0 {
		return c
	}
	return cmp.Compare(r.End, other.End)
}

// Valid reports whether the range is well-formed for a text of length n.
func (r Range) Valid(n int) bool {
	return 0 <= r.Begin && r.Begin <= r.End && r.End <= n
}

// Text returns the slice of src covered by the range, clamped to src.
func (r Range) Text(src string) string {
	begin := min(max(r.Begin, 0), len(src))
	end := min(max(r.End, begin), len(src))
	return src[begin:end]
}

// String returns the range as "[begin,end)".
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Begin, r.End)
}
