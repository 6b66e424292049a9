package analyzer

import (
	"regexp"
	"strings"
)

// AnalysisRequest is one user-submitted audit job
type AnalysisRequest struct {
	URL               string `json:"url" yaml:"url"`
	TargetKeywords    string `json:"targetKeywords,omitempty" yaml:"targetKeywords,omitempty"`
	Competitors       string `json:"competitors,omitempty" yaml:"competitors,omitempty"`
	AdditionalContext string `json:"additionalContext,omitempty" yaml:"additionalContext,omitempty"`
}

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL prepends https:// when the URL carries no http(s) scheme
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !schemePattern.MatchString(u) {
		u = "https://" + u
	}
	return u
}

// Normalize returns a copy of the request with trimmed fields and a schemed URL
func (r AnalysisRequest) Normalize() AnalysisRequest {
	return AnalysisRequest{
		URL:               NormalizeURL(r.URL),
		TargetKeywords:    strings.TrimSpace(r.TargetKeywords),
		Competitors:       strings.TrimSpace(r.Competitors),
		AdditionalContext: strings.TrimSpace(r.AdditionalContext),
	}
}

// Update is a single streamed fragment together with everything received so far
type Update struct {
	Delta string `json:"delta"`
	Text  string `json:"text"`
}

// GroundingSource is a web page the model cited while researching the report
type GroundingSource struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Metric statuses accepted in the metrics block
const (
	StatusCritical  = "Critical"
	StatusPoor      = "Poor"
	StatusFair      = "Fair"
	StatusGood      = "Good"
	StatusExcellent = "Excellent"
)

// AnalysisMetric is one scored dimension of the audit
type AnalysisMetric struct {
	Score  int    `json:"score" yaml:"score"`
	Status string `json:"status" yaml:"status"`
}

// AnalysisMetrics holds the tracked dimensions. The four required ones are
// always set when the struct is surfaced; AIReadiness is optional.
type AnalysisMetrics struct {
	Technical   AnalysisMetric  `json:"technical" yaml:"technical"`
	OnPage      AnalysisMetric  `json:"onPage" yaml:"onPage"`
	Content     AnalysisMetric  `json:"content" yaml:"content"`
	Keywords    AnalysisMetric  `json:"keywords" yaml:"keywords"`
	AIReadiness *AnalysisMetric `json:"aiReadiness,omitempty" yaml:"aiReadiness,omitempty"`
}

// AnalysisResult is the finalized report
type AnalysisResult struct {
	Markdown string            `json:"markdown"`
	Sources  []GroundingSource `json:"sources"`
	Metrics  *AnalysisMetrics  `json:"metrics,omitempty"`
}
