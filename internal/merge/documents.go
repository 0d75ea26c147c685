package merge

import (
	"github.com/quillvc/quill/internal/content"
)

// DocumentResult is the outcome of a structured merge: the merged content
// payload plus every conflict found, annotated with its section.
type DocumentResult struct {
	Merged    content.Content
	Conflicts []ConflictBlock
}

// Documents merges two divergent manuscript bodies against their common
// base. When any input is sectioned, each section id in the union of
// base/ours/theirs merges independently; sections are the merge unit and
// cross-section moves are never detected. Under the manual strategy a
// conflicting section falls back to our side's text in the merged payload
// (best effort), while the conflict list stays authoritative.
func Documents(base, ours, theirs content.Content, strategy Strategy) *DocumentResult {
	if !base.IsSectioned() && !ours.IsSectioned() && !theirs.IsSectioned() {
		res := Text(base.Text, ours.Text, theirs.Text, strategy)
		merged := res.MergedText
		if strategy == StrategyManual && len(res.Conflicts) > 0 {
			merged = ours.Text
		}
		return &DocumentResult{
			Merged:    content.PlainText(merged),
			Conflicts: res.Conflicts,
		}
	}

	// A plain-text side participates as a single "body" section, matching
	// the content model's word-count fallback.
	base = asSectioned(base)
	ours = asSectioned(ours)
	theirs = asSectioned(theirs)

	ids := unionSectionIDs(base, ours, theirs)

	var sections []content.Section
	var conflicts []ConflictBlock

	for _, id := range ids {
		baseText, inBase := base.Section(id)
		ourText, inOurs := ours.Section(id)
		theirText, inTheirs := theirs.Section(id)

		// Dropped on both sides: stays dropped.
		if !inOurs && !inTheirs {
			continue
		}

		res := Text(baseText, ourText, theirText, strategy)
		for _, c := range res.Conflicts {
			c.Section = id
			conflicts = append(conflicts, c)
		}

		mergedText := res.MergedText
		if strategy == StrategyManual && len(res.Conflicts) > 0 {
			mergedText = ourText
		}

		// A side that removed the section contributes empty text; when the
		// merge settles on empty, the section is gone.
		if mergedText == "" && (!inOurs || !inTheirs || !inBase) {
			continue
		}
		sections = append(sections, content.Section{ID: id, Text: mergedText})
	}

	return &DocumentResult{
		Merged:    content.Sectioned(sections),
		Conflicts: conflicts,
	}
}

func asSectioned(c content.Content) content.Content {
	if c.IsSectioned() || c.Text == "" {
		return c
	}
	return content.Sectioned([]content.Section{{ID: "body", Text: c.Text}})
}

// unionSectionIDs returns section ids in base order, then ours-only ids,
// then theirs-only ids, preserving each document's internal order.
func unionSectionIDs(base, ours, theirs content.Content) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, c := range []content.Content{base, ours, theirs} {
		for _, id := range c.SectionIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
