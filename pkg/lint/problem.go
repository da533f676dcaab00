package lint

import (
	"slices"

	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
)

// Autofix replaces the bytes in Range with Replacement.
// Its identity is the range alone.
type Autofix struct {
	Range       core.Range `json:"range"`
	Replacement string     `json:"replacement"`
}

// Replace returns an autofix substituting text for rng.
func Replace(rng core.Range, text string) *Autofix {
	return &Autofix{Range: rng, Replacement: text}
}

// Removal returns an autofix deleting rng, together with the line break
// right after it when there is one.
func Removal(sf *program.SourceFile, rng core.Range) *Autofix {
	end := rng.End
	if end >= 0 && end < len(sf.AST.Src) && sf.AST.Src[end] == '\n' {
		end++
	}
	return &Autofix{Range: core.Range{Begin: rng.Begin, End: end}}
}

// Problem is a finding reported by a rule.
// Its identity is the range alone.
type Problem struct {
	Range       core.Range `json:"range"`
	Description string     `json:"description"`
	Reporter    string     `json:"reporter"`
	Autofix     *Autofix   `json:"autofix,omitempty"`
}

// ProblemSet holds problems unique by range. The first problem inserted
// for a range wins; later ones are dropped.
type ProblemSet map[core.Range]Problem

// NewProblemSet returns an empty set.
func NewProblemSet() ProblemSet {
	return make(ProblemSet)
}

// Insert stores p unless a problem with the same range exists.
// It reports whether p was stored.
func (s ProblemSet) Insert(p Problem) bool {
	if _, ok := s[p.Range]; ok {
		return false
	}
	s[p.Range] = p
	return true
}

// Delete removes the problem at rng.
func (s ProblemSet) Delete(rng core.Range) {
	delete(s, rng)
}

// Len returns the number of problems.
func (s ProblemSet) Len() int {
	return len(s)
}

// Sorted returns the problems ordered by range.
func (s ProblemSet) Sorted() []Problem {
	out := make([]Problem, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Problem) int {
		return a.Range.Compare(b.Range)
	})
	return out
}

// Fixable returns how many problems carry an autofix.
func (s ProblemSet) Fixable() int {
	n := 0
	for _, p := range s {
		if p.Autofix != nil {
			n++
		}
	}
	return n
}

// Clone returns a shallow copy of the set.
func (s ProblemSet) Clone() ProblemSet {
	out := make(ProblemSet, len(s))
	for r, p := range s {
		out[r] = p
	}
	return out
}
