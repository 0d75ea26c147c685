package merge

import (
	"strings"
	"testing"
)

func TestText_BothSidesUnchanged(t *testing.T) {
	base := "a\nb\nc"
	res := Text(base, base, base, StrategyManual)
	if res.MergedText != base {
		t.Errorf("merged %q, want %q", res.MergedText, base)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %+v", res.Conflicts)
	}
}

func TestText_OneSidedEdit(t *testing.T) {
	base := "a\nb\nc"
	theirs := "a\nB\nc"
	res := Text(base, base, theirs, StrategyManual)
	if res.MergedText != theirs {
		t.Errorf("merged %q, want %q", res.MergedText, theirs)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %+v", res.Conflicts)
	}
}

func TestText_DisjointEdits(t *testing.T) {
	base := "a\nb\nc\nd\ne"
	ours := "A\nb\nc\nd\ne"
	theirs := "a\nb\nc\nd\nE"

	res := Text(base, ours, theirs, StrategyManual)
	if res.MergedText != "A\nb\nc\nd\nE" {
		t.Errorf("merged %q, want %q", res.MergedText, "A\nb\nc\nd\nE")
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %+v", res.Conflicts)
	}
}

func TestText_ConvergentEdits(t *testing.T) {
	base := "a\nb\nc"
	both := "a\nb\nc\nd"

	res := Text(base, both, both, StrategyManual)
	if res.MergedText != both {
		t.Errorf("merged %q, want %q", res.MergedText, both)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("identical edits must not conflict, got %+v", res.Conflicts)
	}
}

func TestText_ConflictManual(t *testing.T) {
	base := "line1\nline2"
	ours := "line1-ours\nline2"
	theirs := "line1-theirs\nline2"

	res := Text(base, ours, theirs, StrategyManual)
	if len(res.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(res.Conflicts))
	}

	c := res.Conflicts[0]
	if c.StartLine != 0 || c.EndLine != 1 {
		t.Errorf("conflict range [%d,%d), want [0,1)", c.StartLine, c.EndLine)
	}
	if c.BaseContent != "line1" {
		t.Errorf("base content %q, want %q", c.BaseContent, "line1")
	}
	if c.OurContent != "line1-ours" || c.TheirContent != "line1-theirs" {
		t.Errorf("sides %q / %q", c.OurContent, c.TheirContent)
	}

	for _, marker := range []string{"<<<<<<< ours", "=======", ">>>>>>> theirs"} {
		if !strings.Contains(res.MergedText, marker) {
			t.Errorf("merged text missing marker %q:\n%s", marker, res.MergedText)
		}
	}
	if !strings.HasSuffix(res.MergedText, "line2") {
		t.Errorf("trailing unedited line lost:\n%s", res.MergedText)
	}
}

func TestText_ConflictOursWins(t *testing.T) {
	base := "line1\nline2"
	res := Text(base, "line1-ours\nline2", "line1-theirs\nline2", StrategyOurs)

	if res.MergedText != "line1-ours\nline2" {
		t.Errorf("merged %q, want ours side", res.MergedText)
	}
	if len(res.Conflicts) != 1 {
		t.Errorf("conflict must still be reported under ours strategy, got %d", len(res.Conflicts))
	}
}

func TestText_ConflictTheirsWins(t *testing.T) {
	base := "line1\nline2"
	res := Text(base, "line1-ours\nline2", "line1-theirs\nline2", StrategyTheirs)

	if res.MergedText != "line1-theirs\nline2" {
		t.Errorf("merged %q, want theirs side", res.MergedText)
	}
}

func TestText_SamePositionInsertsConflict(t *testing.T) {
	base := "x\ny"
	ours := "x\nmid-ours\ny"
	theirs := "x\nmid-theirs\ny"

	res := Text(base, ours, theirs, StrategyManual)
	if len(res.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict for competing insertions, got %d", len(res.Conflicts))
	}
	c := res.Conflicts[0]
	if c.BaseContent != "" {
		t.Errorf("competing insertions have empty base, got %q", c.BaseContent)
	}
	if c.OurContent != "mid-ours" || c.TheirContent != "mid-theirs" {
		t.Errorf("sides %q / %q", c.OurContent, c.TheirContent)
	}
}

func TestText_DeleteVersusEdit(t *testing.T) {
	base := "p\nq\nr"
	ours := "p\nr"       // deleted q
	theirs := "p\nq2\nr" // edited q

	res := Text(base, ours, theirs, StrategyTheirs)
	if len(res.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(res.Conflicts))
	}
	if res.MergedText != "p\nq2\nr" {
		t.Errorf("merged %q, want theirs side applied", res.MergedText)
	}

	res = Text(base, ours, theirs, StrategyOurs)
	if res.MergedText != "p\nr" {
		t.Errorf("merged %q, want ours deletion applied", res.MergedText)
	}
}

func TestText_MultiSpanEditsInsideLargerEdit(t *testing.T) {
	// Ours edits two separate spans; theirs rewrites one range covering
	// both. All of it is one conflict, and the resolved output must be
	// exactly the winning side's text for the whole union.
	base := "a\nb\nc"
	ours := "A\nb\nC"
	theirs := "X\nY"

	res := Text(base, ours, theirs, StrategyOurs)
	if res.MergedText != "A\nb\nC" {
		t.Errorf("ours merge %q, want %q", res.MergedText, "A\nb\nC")
	}

	res = Text(base, ours, theirs, StrategyTheirs)
	if res.MergedText != "X\nY" {
		t.Errorf("theirs merge %q, want %q", res.MergedText, "X\nY")
	}

	res = Text(base, ours, theirs, StrategyManual)
	if len(res.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict covering both spans, got %d", len(res.Conflicts))
	}
	c := res.Conflicts[0]
	if c.StartLine != 0 || c.EndLine != 3 {
		t.Errorf("conflict range [%d,%d), want [0,3)", c.StartLine, c.EndLine)
	}
	if c.BaseContent != "a\nb\nc" {
		t.Errorf("base content %q", c.BaseContent)
	}
	if c.OurContent != "A\nb\nC" {
		t.Errorf("our content %q, want %q", c.OurContent, "A\nb\nC")
	}
	if c.TheirContent != "X\nY" {
		t.Errorf("their content %q, want %q", c.TheirContent, "X\nY")
	}
	for _, want := range []string{"<<<<<<< ours", "A\nb\nC", "=======", "X\nY", ">>>>>>> theirs"} {
		if !strings.Contains(res.MergedText, want) {
			t.Errorf("merged text missing %q:\n%s", want, res.MergedText)
		}
	}
}

func TestText_OverlapChainExtendsConflict(t *testing.T) {
	// Ours' second edit overlaps theirs' edit and reaches past it, so the
	// conflict union must grow to cover the whole chain.
	base := "a\nb\nc\nd\ne"
	// ours: a -> A and c..e -> Z; theirs: a..c -> X Y.
	ours := "A\nb\nZ"
	theirs := "X\nY\nd\ne"

	res := Text(base, ours, theirs, StrategyOurs)
	if res.MergedText != "A\nb\nZ" {
		t.Errorf("ours merge %q, want %q", res.MergedText, "A\nb\nZ")
	}
	if len(res.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(res.Conflicts))
	}
	c := res.Conflicts[0]
	if c.StartLine != 0 || c.EndLine != 5 {
		t.Errorf("conflict range [%d,%d), want [0,5)", c.StartLine, c.EndLine)
	}
	if c.TheirContent != "X\nY\nd\ne" {
		t.Errorf("their content %q", c.TheirContent)
	}

	res = Text(base, ours, theirs, StrategyTheirs)
	if res.MergedText != "X\nY\nd\ne" {
		t.Errorf("theirs merge %q, want %q", res.MergedText, "X\nY\nd\ne")
	}
}

func TestText_InsertionAtEnd(t *testing.T) {
	base := "a\nb"
	ours := "a\nb\nc"
	res := Text(base, ours, base, StrategyManual)
	if res.MergedText != "a\nb\nc" {
		t.Errorf("merged %q, want %q", res.MergedText, "a\nb\nc")
	}
}

func TestValidateStrategy(t *testing.T) {
	for _, ok := range []string{"ours", "theirs", "manual"} {
		if err := ValidateStrategy(ok); err != nil {
			t.Errorf("ValidateStrategy(%q) = %v, want nil", ok, err)
		}
	}
	if err := ValidateStrategy("recursive"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
