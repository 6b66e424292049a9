package analyzer

import (
	_ "embed"
	"strings"
)

// TemplateVersion identifies the report blueprint sent as system instructions.
// Bump it whenever templates/report.md changes shape.
const TemplateVersion = "2025.11"

//go:embed templates/report.md
var reportTemplate string

// SystemInstruction returns the report blueprint
func SystemInstruction() string {
	return reportTemplate
}

// BuildPrompt renders the user prompt for a request. Hints are embedded
// verbatim and omitted when empty.
func BuildPrompt(req AnalysisRequest) string {
	var b strings.Builder

	b.WriteString("Please perform a comprehensive, deep-dive SEO competitive intelligence analysis for the following website:\n")
	b.WriteString("URL: " + req.URL + "\n\n")

	if req.TargetKeywords != "" {
		b.WriteString("Target Keywords provided by user: " + req.TargetKeywords + "\n")
	}
	if req.Competitors != "" {
		b.WriteString("Known Competitors: " + req.Competitors + "\n")
	}
	if req.AdditionalContext != "" {
		b.WriteString("Additional Context: " + req.AdditionalContext + "\n")
	}

	b.WriteString("\nUse web search to research the website's current standing, identify its top real-world competitors")
	if req.Competitors != "" {
		b.WriteString(" (starting from the ones listed above)")
	}
	b.WriteString(", and analyze keyword trends.\n")
	b.WriteString("Execute a deep-dive comparison on Content Gaps, Backlink profiles, and SERP features.\n")

	return b.String()
}
