package report

import (
	"fmt"
	"strings"
)

// Section titles used when a chunk does not start with a level-two heading
const (
	HeaderSectionTitle = "Report Header & Summary"
	IntroSectionTitle  = "Introduction"
)

// Section is one top-level part of a report
type Section struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// SplitSections partitions markdown at every newline that is directly
// followed by a level-two heading. The newline stays with the preceding
// chunk, so joining every Content gives back the input unchanged.
func SplitSections(markdown string) []Section {
	var sections []Section
	start := 0
	for i := 0; i < len(markdown); i++ {
		if markdown[i] != '\n' || !startsH2(markdown[i+1:]) {
			continue
		}
		sections = append(sections, newSection(len(sections), markdown[start:i+1]))
		start = i + 1
	}
	return append(sections, newSection(len(sections), markdown[start:]))
}

func startsH2(s string) bool {
	return len(s) > 2 && s[0] == '#' && s[1] == '#' && (s[2] == ' ' || s[2] == '\t')
}

func newSection(index int, content string) Section {
	return Section{
		ID:      fmt.Sprintf("section-%d", index),
		Title:   sectionTitle(content),
		Content: content,
	}
}

func sectionTitle(content string) string {
	trimmed := strings.TrimSpace(content)

	switch {
	case strings.HasPrefix(trimmed, "## "):
		line, _, _ := strings.Cut(trimmed, "\n")
		title := strings.TrimSpace(strings.TrimPrefix(line, "##"))
		title = strings.TrimSpace(strings.ReplaceAll(title, "**", ""))
		if title == "" {
			return IntroSectionTitle
		}
		return title
	case strings.HasPrefix(trimmed, "# "):
		return HeaderSectionTitle
	default:
		return IntroSectionTitle
	}
}
