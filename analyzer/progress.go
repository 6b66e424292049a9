package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Labels shown while a report is being generated
const (
	InitialProgressLabel    = "Initializing SEO agents..."
	GeneratingProgressLabel = "Generating report content..."
)

var (
	progressHeading = regexp.MustCompile(`^#{1,3}\s`)
	headingPrefix   = regexp.MustCompile(`^#{1,3}\s+(\d+(\.\d+)*\.?\s*)?`)
)

const (
	maxLabelRunes     = 40
	truncatedLabelLen = 37
)

// ProgressLabel derives a status line from the text streamed so far. It
// returns "" when nothing useful can be shown yet.
func ProgressLabel(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !progressHeading.MatchString(line) {
			continue
		}
		return "Analyzing: " + SectionName(line)
	}

	if len(text) > 20 {
		return GeneratingProgressLabel
	}
	return ""
}

// SectionName strips heading markers and leading numbering from a heading
// line and shortens it for display.
func SectionName(heading string) string {
	name := strings.TrimSpace(headingPrefix.ReplaceAllString(strings.TrimSpace(heading), ""))
	if utf8.RuneCountInString(name) > maxLabelRunes {
		name = string([]rune(name)[:truncatedLabelLen]) + "..."
	}
	return name
}
