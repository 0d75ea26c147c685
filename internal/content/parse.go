package content

import (
	"strings"
)

// ParseDocument splits a markdown document into sectioned content on
// "## <id>" headings. Documents without any level-2 heading are stored as
// plain text. Text before the first heading is dropped when blank;
// otherwise it becomes a leading "body" section.
func ParseDocument(text string) Content {
	lines := strings.Split(text, "\n")

	type openSection struct {
		id    string
		lines []string
	}

	var sections []Section
	var current *openSection
	var preamble []string

	flush := func() {
		if current == nil {
			return
		}
		body := strings.Trim(strings.Join(current.lines, "\n"), "\n")
		sections = append(sections, Section{ID: current.id, Text: body})
		current = nil
	}

	for _, line := range lines {
		if id, ok := headingID(line); ok {
			flush()
			current = &openSection{id: id}
			continue
		}
		if current != nil {
			current.lines = append(current.lines, line)
		} else {
			preamble = append(preamble, line)
		}
	}
	flush()

	if len(sections) == 0 {
		return PlainText(text)
	}

	pre := strings.TrimSpace(strings.Join(preamble, "\n"))
	if pre != "" {
		sections = append([]Section{{ID: "body", Text: pre}}, sections...)
	}
	return Sectioned(sections)
}

func headingID(line string) (string, bool) {
	if !strings.HasPrefix(line, "## ") {
		return "", false
	}
	id := strings.TrimSpace(strings.TrimPrefix(line, "## "))
	if id == "" {
		return "", false
	}
	return id, true
}
