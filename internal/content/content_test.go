package content

import (
	"strings"
	"testing"
)

func TestCanonicalText_Plain(t *testing.T) {
	c := PlainText("just some prose\nwith two lines")
	if CanonicalText(c) != c.Text {
		t.Errorf("plain text must pass through verbatim")
	}
}

func TestCanonicalText_Sectioned(t *testing.T) {
	c := Sectioned([]Section{
		{ID: "intro", Text: "Hello."},
		{ID: "body", Text: "One.\nTwo."},
	})

	want := "## intro\n\nHello.\n\n## body\n\nOne.\nTwo."
	if got := CanonicalText(c); got != want {
		t.Errorf("canonical text:\n%q\nwant:\n%q", got, want)
	}
}

func TestFingerprint(t *testing.T) {
	a := PlainText("some text")
	b := PlainText("some text")
	c := PlainText("other text")

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("equal content must fingerprint equally")
	}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("different content must fingerprint differently")
	}
	if len(Fingerprint(a)) != 16 {
		t.Errorf("fingerprint length %d, want 16", len(Fingerprint(a)))
	}

	// Sections that render the same canonical text share a fingerprint
	// with the equivalent plain text.
	s := Sectioned([]Section{{ID: "x", Text: "y"}})
	p := PlainText("## x\n\ny")
	if Fingerprint(s) != Fingerprint(p) {
		t.Error("fingerprint is over canonical text, not representation")
	}
}

func TestWordCounts(t *testing.T) {
	plain := PlainText("one two  three\nfour")
	if got := WordCount(plain); got != 4 {
		t.Errorf("WordCount = %d, want 4", got)
	}

	counts := SectionWordCounts(plain)
	if counts["body"] != 4 || len(counts) != 1 {
		t.Errorf("plain content must report a single body count, got %v", counts)
	}

	s := Sectioned([]Section{
		{ID: "intro", Text: "hello there"},
		{ID: "outro", Text: "bye"},
	})
	counts = SectionWordCounts(s)
	if counts["intro"] != 2 || counts["outro"] != 1 {
		t.Errorf("section counts %v", counts)
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := Sectioned([]Section{{ID: "a", Text: "first"}, {ID: "b", Text: "second"}})

	data, err := Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if CanonicalText(back) != CanonicalText(c) {
		t.Errorf("round trip changed content: %q", CanonicalText(back))
	}
}

func TestUnmarshal_BareString(t *testing.T) {
	c, err := Unmarshal(`"plain body"`)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if c.IsSectioned() || c.Text != "plain body" {
		t.Errorf("bare JSON string must decode as plain text, got %+v", c)
	}
}

func TestParseDocument_Plain(t *testing.T) {
	text := "no headings here\njust lines"
	c := ParseDocument(text)
	if c.IsSectioned() {
		t.Fatal("document without headings must stay plain")
	}
	if c.Text != text {
		t.Errorf("plain text altered: %q", c.Text)
	}
}

func TestParseDocument_Sections(t *testing.T) {
	text := "## intro\n\nHello.\n\n## body\n\nLine one.\nLine two.\n"
	c := ParseDocument(text)
	if !c.IsSectioned() {
		t.Fatal("expected sectioned content")
	}

	ids := c.SectionIDs()
	if len(ids) != 2 || ids[0] != "intro" || ids[1] != "body" {
		t.Fatalf("section ids %v, want [intro body]", ids)
	}

	intro, _ := c.Section("intro")
	if intro != "Hello." {
		t.Errorf("intro %q", intro)
	}
	body, _ := c.Section("body")
	if body != "Line one.\nLine two." {
		t.Errorf("body %q", body)
	}
}

func TestParseDocument_Preamble(t *testing.T) {
	text := "Working title.\n\n## chapter-1\n\nOnce upon a time."
	c := ParseDocument(text)

	ids := c.SectionIDs()
	if len(ids) != 2 || ids[0] != "body" {
		t.Fatalf("non-blank preamble must become a leading body section, got %v", ids)
	}
	pre, _ := c.Section("body")
	if pre != "Working title." {
		t.Errorf("preamble %q", pre)
	}
}

func TestParseDocument_BlankPreambleDropped(t *testing.T) {
	text := "\n\n## only\n\ncontent"
	c := ParseDocument(text)
	if len(c.SectionIDs()) != 1 {
		t.Errorf("blank preamble must be dropped, got sections %v", c.SectionIDs())
	}
}

func TestParseDocument_HeadingWithoutID(t *testing.T) {
	// "## " with nothing after it is not a section heading.
	text := "## \n\ntext"
	c := ParseDocument(text)
	if c.IsSectioned() {
		t.Errorf("empty heading id must not open a section")
	}
	if !strings.Contains(c.Text, "text") {
		t.Errorf("content lost: %q", c.Text)
	}
}
