// Package content normalizes manuscript bodies into the canonical text the
// diff and merge engines operate on, and computes fingerprints and word
// counts for change detection.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Section is one named block of a structured manuscript.
type Section struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Content is a manuscript body: either plain text or an ordered list of
// named sections. Exactly one representation is populated; Sections wins
// when both are present.
type Content struct {
	Text     string    `json:"text,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// PlainText builds a plain-text content value.
func PlainText(text string) Content {
	return Content{Text: text}
}

// Sectioned builds a sectioned content value. Section order is preserved.
func Sectioned(sections []Section) Content {
	return Content{Sections: sections}
}

// IsSectioned reports whether the content carries a section map.
func (c Content) IsSectioned() bool {
	return len(c.Sections) > 0
}

// Section returns the text of the named section and whether it exists.
func (c Content) Section(id string) (string, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s.Text, true
		}
	}
	return "", false
}

// SectionIDs returns section ids in stored order.
func (c Content) SectionIDs() []string {
	ids := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		ids = append(ids, s.ID)
	}
	return ids
}

// CanonicalText linearizes content into the single text the diff/merge
// algorithms see. Sectioned content renders as "## <id>" blocks separated
// by blank lines, in stored order; plain content passes through verbatim.
func CanonicalText(c Content) string {
	if !c.IsSectioned() {
		return c.Text
	}
	blocks := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		blocks = append(blocks, fmt.Sprintf("## %s\n\n%s", s.ID, s.Text))
	}
	return strings.Join(blocks, "\n\n")
}

// WordCount counts non-empty whitespace-separated tokens in the canonical text.
func WordCount(c Content) int {
	return countWords(CanonicalText(c))
}

// SectionWordCounts returns per-section word counts. Plain content reports
// a single "body" entry.
func SectionWordCounts(c Content) map[string]int {
	if !c.IsSectioned() {
		return map[string]int{"body": countWords(c.Text)}
	}
	counts := make(map[string]int, len(c.Sections))
	for _, s := range c.Sections {
		counts[s.ID] = countWords(s.Text)
	}
	return counts
}

// Fingerprint computes a truncated SHA-256 of the canonical text: 16 hex
// characters, enough for cheap change detection. Audit-grade hashing lives
// in the event log, not here.
func Fingerprint(c Content) string {
	sum := sha256.Sum256([]byte(CanonicalText(c)))
	return hex.EncodeToString(sum[:])[:16]
}

// Marshal encodes content to its stored JSON form.
func Marshal(c Content) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode content: %w", err)
	}
	return string(data), nil
}

// Unmarshal decodes content from its stored JSON form. Bare JSON strings
// from older rows are accepted as plain text.
func Unmarshal(data string) (Content, error) {
	trimmed := strings.TrimSpace(data)
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal([]byte(trimmed), &text); err != nil {
			return Content{}, fmt.Errorf("failed to decode content: %w", err)
		}
		return PlainText(text), nil
	}
	var c Content
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return Content{}, fmt.Errorf("failed to decode content: %w", err)
	}
	return c, nil
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
