package lint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
)

// Reparser turns patched source text back into a file that can be linted.
// It is the hook iterative fixing needs; without one Fix runs a single
// pass.
type Reparser interface {
	Reparse(sf *program.SourceFile, src string) (*program.SourceFile, error)
}

// ReparserFunc adapts a function to Reparser.
type ReparserFunc func(sf *program.SourceFile, src string) (*program.SourceFile, error)

// Reparse implements Reparser.
func (f ReparserFunc) Reparse(sf *program.SourceFile, src string) (*program.SourceFile, error) {
	return f(sf, src)
}

// FixResult is the outcome of Fix.
type FixResult struct {
	// Source is the patched text. It is only meaningful when Patched is set.
	Source string

	// Patched reports whether at least one pass ran.
	Patched bool

	// Remaining holds the problems still open. Problems whose autofix was
	// dropped because of a collision stay here.
	Remaining ProblemSet

	// Applied counts the autofixes written into Source.
	Applied int

	// Passes counts the patch passes that ran.
	Passes int

	// File is the reparsed file after the last pass. It is nil unless a
	// Reparser is configured.
	File *program.SourceFile
}

// Fix applies the autofixes carried by problems to the text of sf.
//
// Each pass extracts the autofixes ordered by range, keeping the first of
// several autofixes sharing a range, and patches the text right to left.
// Problems whose autofix was applied are removed from the result; all
// others stay open. Without a Reparser, Fix stops after one pass and the
// remaining ranges refer to the original text. With a Reparser, the
// patched text is reparsed and linted again until no autofix remains,
// failing with ErrFixNotConverged after the maximum number of passes.
// The original file is never modified.
func (l *Linter) Fix(sf *program.SourceFile, problems ProblemSet) (FixResult, error) {
	res := FixResult{Remaining: problems}
	if len(problems) == 0 {
		return res, nil
	}

	source := sf.AST.Src
	current := sf
	remaining := problems.Clone()

	for pass := 0; pass < l.maxPasses; pass++ {
		fixes, owners := extractFixes(remaining)
		if len(fixes) == 0 {
			res.Remaining = remaining
			return res, nil
		}

		patched, applied := applyFixes(source, fixes)
		source = patched
		res.Source = source
		res.Patched = true
		res.Passes++
		for i, ok := range applied {
			if ok {
				remaining.Delete(owners[i])
				res.Applied++
			}
		}
		l.logger.Debug("fix pass", "path", sf.Path, "pass", res.Passes, "fixes", len(fixes), "remaining", remaining.Len())

		if l.reparser == nil {
			res.Remaining = remaining
			return res, nil
		}

		next, err := l.reparser.Reparse(current, source)
		if err != nil {
			res.Remaining = remaining
			return res, fmt.Errorf("reparse %s after pass %d: %w", sf.Path, res.Passes, err)
		}
		current = next
		res.File = next

		relinted, err := l.Lint(next)
		if err != nil {
			l.logger.Warn("relint reported rule failures", "path", sf.Path, "error", err)
		}
		remaining = relinted
	}

	res.Remaining = remaining
	if remaining.Fixable() > 0 {
		return res, fmt.Errorf("%w: %s after %d passes", ErrFixNotConverged, sf.Path, res.Passes)
	}
	return res, nil
}

// extractFixes collects the autofixes of problems ordered by range. When
// several problems carry an autofix for the same range, the one belonging
// to the first problem wins. owners[i] is the range of the problem that
// contributed fixes[i].
func extractFixes(problems ProblemSet) (fixes []Autofix, owners []core.Range) {
	seen := make(map[core.Range]bool)
	for _, p := range problems.Sorted() {
		if p.Autofix == nil || seen[p.Autofix.Range] {
			continue
		}
		seen[p.Autofix.Range] = true
		fixes = append(fixes, *p.Autofix)
		owners = append(owners, p.Range)
	}
	idx := make([]int, len(fixes))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return fixes[a].Range.Compare(fixes[b].Range)
	})
	sortedFixes := make([]Autofix, len(fixes))
	sortedOwners := make([]core.Range, len(fixes))
	for i, j := range idx {
		sortedFixes[i] = fixes[j]
		sortedOwners[i] = owners[j]
	}
	return sortedFixes, sortedOwners
}

// ApplyFixes patches src with fixes and returns the new text.
//
// Fixes are applied from the rightmost to the leftmost, which keeps every
// offset valid without recomputation. A fix ending past the start of an
// already applied fix overlaps it and is skipped.
func ApplyFixes(src string, fixes []Autofix) string {
	sorted := slices.Clone(fixes)
	slices.SortStableFunc(sorted, func(a, b Autofix) int {
		return a.Range.Compare(b.Range)
	})
	out, _ := applyFixes(src, sorted)
	return out
}

// applyFixes expects fixes sorted by range and reports which were applied.
func applyFixes(src string, fixes []Autofix) (string, []bool) {
	applied := make([]bool, len(fixes))
	last := len(src)
	pieces := make([]string, 0, 2*len(fixes)+1)

	for i := len(fixes) - 1; i >= 0; i-- {
		r := fixes[i].Range
		if r.End > last || r.Begin < 0 || r.Begin > r.End {
			continue
		}
		pieces = append(pieces, src[r.End:last], fixes[i].Replacement)
		last = r.Begin
		applied[i] = true
	}
	pieces = append(pieces, src[:last])
	slices.Reverse(pieces)
	return strings.Join(pieces, ""), applied
}
