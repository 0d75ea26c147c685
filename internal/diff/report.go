package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Change is one operation annotated with its 1-based line number: the
// from-side line for equal/delete ops, the to-side line for inserts.
type Change struct {
	Kind OpKind `json:"kind"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Result is a human-auditable diff summary between two versions.
type Result struct {
	FromID         string   `json:"from_id"`
	ToID           string   `json:"to_id"`
	AddedLines     int      `json:"added_lines"`
	RemovedLines   int      `json:"removed_lines"`
	UnchangedLines int      `json:"unchanged_lines"`
	Changes        []Change `json:"changes"`
	Summary        string   `json:"summary"`
}

// BuildResult diffs two texts and aggregates per-line operations into a
// Result. fromID and toID only label the output.
func BuildResult(fromID, toID, fromText, toText string) *Result {
	ops := Lines(SplitLines(fromText), SplitLines(toText))

	result := &Result{
		FromID:  fromID,
		ToID:    toID,
		Changes: make([]Change, 0, len(ops)),
	}

	fromLine, toLine := 0, 0
	for _, op := range ops {
		switch op.Kind {
		case OpEqual:
			fromLine++
			toLine++
			result.UnchangedLines++
			result.Changes = append(result.Changes, Change{Kind: OpEqual, Line: fromLine, Text: op.Text})
		case OpDelete:
			fromLine++
			result.RemovedLines++
			result.Changes = append(result.Changes, Change{Kind: OpDelete, Line: fromLine, Text: op.Text})
		case OpInsert:
			toLine++
			result.AddedLines++
			result.Changes = append(result.Changes, Change{Kind: OpInsert, Line: toLine, Text: op.Text})
		}
	}

	result.Summary = summarize(result.AddedLines, result.RemovedLines)
	return result
}

func summarize(added, removed int) string {
	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("+%d", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d", removed))
	}
	if len(parts) == 0 {
		return "No changes"
	}
	return strings.Join(parts, ", ")
}

// Unified renders a unified diff between two texts for terminal display.
func Unified(fromName, toName, fromText, toText string, context int) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(fromText),
		B:        difflib.SplitLines(toText),
		FromFile: fromName,
		ToFile:   toName,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to render unified diff: %w", err)
	}
	return text, nil
}
