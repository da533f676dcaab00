package core

import (
	"fmt"
	"sort"
)

// Location is a zero-based line/column pair.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String renders the location one-based, the way editors show it.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line+1, l.Column+1)
}

// LineMapping translates byte offsets into line/column locations.
type LineMapping struct {
	starts []int
}

// NewLineMapping indexes the line starts of src.
func NewLineMapping(src string) *LineMapping {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineMapping{starts: starts}
}

// LineMappingFromStarts wraps precomputed line start offsets.
// The slice must be ascending and begin with 0.
func LineMappingFromStarts(starts []int) *LineMapping {
	if len(starts) == 0 || starts[0] != 0 {
		starts = append([]int{0}, starts...)
	}
	return &LineMapping{starts: starts}
}

// Lines returns the number of lines indexed.
func (m *LineMapping) Lines() int {
	return len(m.starts)
}

// Starts returns the line start offsets.
func (m *LineMapping) Starts() []int {
	return m.starts
}

// Translate converts a byte offset into a Location.
func (m *LineMapping) Translate(pos int) Location {
	if m == nil || len(m.starts) == 0 {
		return Location{Column: pos}
	}
	line := sort.Search(len(m.starts), func(i int) bool {
		return m.starts[i] > pos
	}) - 1
	if line < 0 {
		line = 0
	}
	return Location{Line: line, Column: pos - m.starts[line]}
}
