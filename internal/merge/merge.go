// Package merge implements three-way text merge over the edit spans
// produced by the diff package, with ours/theirs/manual conflict
// strategies and a section-aware variant for structured manuscripts.
package merge

import (
	"fmt"
	"strings"

	"github.com/quillvc/quill/internal/diff"
)

// Strategy selects how conflicting edits are resolved.
type Strategy string

const (
	StrategyOurs   Strategy = "ours"
	StrategyTheirs Strategy = "theirs"
	StrategyManual Strategy = "manual"
)

// ValidateStrategy validates a merge strategy string.
func ValidateStrategy(s string) error {
	switch Strategy(s) {
	case StrategyOurs, StrategyTheirs, StrategyManual:
		return nil
	default:
		return fmt.Errorf("invalid merge strategy: must be one of: ours, theirs, manual")
	}
}

// ConflictBlock is the union range of two overlapping, unequal edits:
// 0-based half-open [StartLine, EndLine) over the base lines, plus each
// side's replacement text and the base text for reference. Section is set
// by the structured variant.
type ConflictBlock struct {
	Section      string `json:"section,omitempty"`
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
	BaseContent  string `json:"base_content"`
	OurContent   string `json:"our_content"`
	TheirContent string `json:"their_content"`
}

// Result is the outcome of a text-level three-way merge. Under the manual
// strategy a non-empty Conflicts list means the merge must not land; under
// ours/theirs conflicts are reported but already resolved in MergedText.
type Result struct {
	MergedText string
	Conflicts  []ConflictBlock
}

// Text merges two divergent texts against their common base. Both sides'
// edits are computed as minimal contiguous spans and walked in lockstep
// over base-line positions.
func Text(baseText, oursText, theirsText string, strategy Strategy) *Result {
	base := diff.SplitLines(baseText)
	ourEdits := diff.BuildEdits(base, diff.SplitLines(oursText))
	theirEdits := diff.BuildEdits(base, diff.SplitLines(theirsText))

	var out []string
	var conflicts []ConflictBlock
	i, j, pos := 0, 0, 0

	// copyTo emits unedited base lines up to (clamped) target position.
	copyTo := func(target int) {
		for pos < target && pos < len(base) {
			out = append(out, base[pos])
			pos++
		}
	}

	// apply emits one side's edit unchanged.
	apply := func(e *diff.Edit) {
		copyTo(e.BaseStart)
		out = append(out, e.NewLines...)
		pos = max(pos, e.BaseEnd)
	}

	for i < len(ourEdits) || j < len(theirEdits) {
		var oe, te *diff.Edit
		if i < len(ourEdits) {
			oe = &ourEdits[i]
		}
		if j < len(theirEdits) {
			te = &theirEdits[j]
		}

		if oe != nil && te != nil {
			if editsEqual(oe, te) {
				// Convergent edit: both sides made the same change.
				copyTo(oe.BaseStart)
				out = append(out, oe.NewLines...)
				pos = max(pos, oe.BaseEnd)
				i++
				j++
				continue
			}
			if rangesOverlap(oe, te) || oe.BaseStart == te.BaseStart {
				unionStart := min(oe.BaseStart, te.BaseStart)
				unionEnd := max(oe.BaseEnd, te.BaseEnd)
				ourGroup := []diff.Edit{*oe}
				theirGroup := []diff.Edit{*te}
				i++
				j++

				// The union is transitive: any later edit on either side
				// starting inside it joins the same conflict and may extend
				// it further, pulling in more edits in turn.
				for grew := true; grew; {
					grew = false
					for i < len(ourEdits) && ourEdits[i].BaseStart < unionEnd {
						ourGroup = append(ourGroup, ourEdits[i])
						unionEnd = max(unionEnd, ourEdits[i].BaseEnd)
						i++
						grew = true
					}
					for j < len(theirEdits) && theirEdits[j].BaseStart < unionEnd {
						theirGroup = append(theirGroup, theirEdits[j])
						unionEnd = max(unionEnd, theirEdits[j].BaseEnd)
						j++
						grew = true
					}
				}
				copyTo(unionStart)

				ourSeg := sideContent(base, ourGroup, unionStart, unionEnd)
				theirSeg := sideContent(base, theirGroup, unionStart, unionEnd)
				conflicts = append(conflicts, ConflictBlock{
					StartLine:    unionStart,
					EndLine:      unionEnd,
					BaseContent:  strings.Join(base[unionStart:unionEnd], "\n"),
					OurContent:   strings.Join(ourSeg, "\n"),
					TheirContent: strings.Join(theirSeg, "\n"),
				})

				switch strategy {
				case StrategyOurs:
					out = append(out, ourSeg...)
				case StrategyTheirs:
					out = append(out, theirSeg...)
				default:
					out = append(out, "<<<<<<< ours")
					out = append(out, ourSeg...)
					out = append(out, "=======")
					out = append(out, theirSeg...)
					out = append(out, ">>>>>>> theirs")
				}

				pos = max(pos, unionEnd)
				continue
			}
			// Disjoint edits: apply whichever starts first.
			if oe.BaseStart <= te.BaseStart {
				apply(oe)
				i++
			} else {
				apply(te)
				j++
			}
			continue
		}

		if oe != nil {
			apply(oe)
			i++
			continue
		}
		apply(te)
		j++
	}

	copyTo(len(base))

	return &Result{
		MergedText: strings.Join(out, "\n"),
		Conflicts:  conflicts,
	}
}

func editsEqual(a, b *diff.Edit) bool {
	if a.BaseStart != b.BaseStart || a.BaseEnd != b.BaseEnd || len(a.NewLines) != len(b.NewLines) {
		return false
	}
	for i := range a.NewLines {
		if a.NewLines[i] != b.NewLines[i] {
			return false
		}
	}
	return true
}

// rangesOverlap is the half-open overlap test over base-line ranges.
func rangesOverlap(a, b *diff.Edit) bool {
	return a.BaseStart < b.BaseEnd && b.BaseStart < a.BaseEnd
}

// sideContent is one side's replacement for the union range: that side's
// edits applied in order, plus any base lines inside the union the side
// left alone. Edits within one side are disjoint and ordered by BaseStart.
func sideContent(base []string, edits []diff.Edit, unionStart, unionEnd int) []string {
	var seg []string
	pos := unionStart
	for _, e := range edits {
		seg = append(seg, base[pos:e.BaseStart]...)
		seg = append(seg, e.NewLines...)
		pos = max(pos, e.BaseEnd)
	}
	seg = append(seg, base[pos:unionEnd]...)
	return seg
}
