package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel tags wrapping the metrics JSON inside the report text
const (
	MetricsOpenTag  = "<JSON_METRICS>"
	MetricsCloseTag = "</JSON_METRICS>"
)

var metricsBlockPattern = regexp.MustCompile(`(?s)<JSON_METRICS>(.*?)</JSON_METRICS>`)

var (
	ErrMetricsMissing    = errors.New("metrics block not found")
	ErrMetricsDuplicated = errors.New("metrics block appears more than once")
)

var validStatuses = map[string]bool{
	StatusCritical:  true,
	StatusPoor:      true,
	StatusFair:      true,
	StatusGood:      true,
	StatusExcellent: true,
}

type metricsPayload struct {
	Technical   *AnalysisMetric `json:"technical"`
	OnPage      *AnalysisMetric `json:"onPage"`
	Content     *AnalysisMetric `json:"content"`
	Keywords    *AnalysisMetric `json:"keywords"`
	AIReadiness *AnalysisMetric `json:"aiReadiness"`
}

// ExtractMetrics carves the metrics block out of a finished report.
//
// On success it returns the parsed metrics and the text with the block and
// its tags removed, trimmed. On any failure it returns nil metrics, the
// unmodified text and the reason.
func ExtractMetrics(text string) (*AnalysisMetrics, string, error) {
	matches := metricsBlockPattern.FindAllStringSubmatchIndex(text, -1)
	switch len(matches) {
	case 0:
		return nil, text, ErrMetricsMissing
	case 1:
	default:
		return nil, text, ErrMetricsDuplicated
	}

	m := matches[0]
	metrics, err := ParseMetrics(text[m[2]:m[3]])
	if err != nil {
		return nil, text, err
	}

	cleaned := strings.TrimSpace(text[:m[0]] + text[m[1]:])
	return metrics, cleaned, nil
}

// ParseMetrics decodes the interior of a metrics block. The whole object is
// rejected when any required dimension is absent or invalid.
func ParseMetrics(raw string) (*AnalysisMetrics, error) {
	var payload metricsPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}

	required := []struct {
		name   string
		metric *AnalysisMetric
	}{
		{"technical", payload.Technical},
		{"onPage", payload.OnPage},
		{"content", payload.Content},
		{"keywords", payload.Keywords},
	}
	for _, r := range required {
		if r.metric == nil {
			return nil, fmt.Errorf("metrics: missing %q", r.name)
		}
		if err := validateMetric(*r.metric); err != nil {
			return nil, fmt.Errorf("metrics: %s: %w", r.name, err)
		}
	}

	metrics := &AnalysisMetrics{
		Technical: *payload.Technical,
		OnPage:    *payload.OnPage,
		Content:   *payload.Content,
		Keywords:  *payload.Keywords,
	}
	if payload.AIReadiness != nil {
		if err := validateMetric(*payload.AIReadiness); err != nil {
			return nil, fmt.Errorf("metrics: aiReadiness: %w", err)
		}
		ai := *payload.AIReadiness
		metrics.AIReadiness = &ai
	}

	return metrics, nil
}

func validateMetric(m AnalysisMetric) error {
	if m.Score < 0 || m.Score > 100 {
		return fmt.Errorf("score %d out of range", m.Score)
	}
	if !validStatuses[m.Status] {
		return fmt.Errorf("unknown status %q", m.Status)
	}
	return nil
}
