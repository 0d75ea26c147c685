// Package diff computes LCS-based line diffs, minimal contiguous edit
// spans, and human-auditable diff summaries between manuscript versions.
package diff

import (
	"strings"
)

// OpKind classifies a single diff operation.
type OpKind string

const (
	OpEqual  OpKind = "equal"
	OpInsert OpKind = "insert"
	OpDelete OpKind = "delete"
)

// Operation is one line-level step in an edit script.
type Operation struct {
	Kind OpKind
	Text string
}

// SplitLines splits text into lines on "\n". Empty text yields a single
// empty line, so diffing "" against "" is an equal op rather than nothing.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// Lines computes an LCS edit script transforming a into b. The result is
// deterministic: on DP ties an insert is emitted before a delete, which
// pins down exactly one of the possible minimal scripts. The choice
// matters downstream because it decides which spans become edits.
func Lines(a, b []string) []Operation {
	n, m := len(a), len(b)

	// (n+1) x (m+1) LCS length table, local to this call.
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	// Backtrack from dp[n][m], emitting one op per cell transition.
	var ops []Operation
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			ops = append(ops, Operation{Kind: OpEqual, Text: a[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			ops = append(ops, Operation{Kind: OpInsert, Text: b[j-1]})
			j--
		default:
			ops = append(ops, Operation{Kind: OpDelete, Text: a[i-1]})
			i--
		}
	}

	// Reverse into forward order.
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}

// Edit is a contiguous half-open range [BaseStart, BaseEnd) of base lines
// replaced by NewLines. BaseStart == BaseEnd is a pure insertion at that
// position.
type Edit struct {
	BaseStart int
	BaseEnd   int
	NewLines  []string
}

// BuildEdits coalesces the edit script between base and other into minimal
// contiguous edit spans. Adjacent insert and delete runs fold into a single
// Edit rather than one per line, which is what makes range-overlap
// detection during merge meaningful.
func BuildEdits(base, other []string) []Edit {
	ops := Lines(base, other)

	var edits []Edit
	var open *Edit
	baseIndex := 0

	flush := func() {
		if open != nil {
			edits = append(edits, *open)
			open = nil
		}
	}

	for _, op := range ops {
		switch op.Kind {
		case OpEqual:
			flush()
			baseIndex++
		case OpDelete:
			if open == nil {
				open = &Edit{BaseStart: baseIndex, BaseEnd: baseIndex}
			}
			open.BaseEnd++
			baseIndex++
		case OpInsert:
			if open == nil {
				open = &Edit{BaseStart: baseIndex, BaseEnd: baseIndex}
			}
			open.NewLines = append(open.NewLines, op.Text)
		}
	}
	flush()

	return edits
}
