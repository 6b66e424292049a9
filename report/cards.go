package report

import (
	"github.com/seo-optimizer/auditor/analyzer"
)

// Status colours for metric cards
const (
	ColorExcellent = "#10b981"
	ColorGood      = "#22c55e"
	ColorFair      = "#eab308"
	ColorPoor      = "#f97316"
	ColorCritical  = "#ef4444"
	ColorUnknown   = "#64748b"
)

// MetricCard is a display-ready metric dimension
type MetricCard struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Score  int    `json:"score"`
	Status string `json:"status"`
	Color  string `json:"color"`
}

// StatusColor maps a metric status to its hex colour
func StatusColor(status string) string {
	switch status {
	case analyzer.StatusExcellent:
		return ColorExcellent
	case analyzer.StatusGood:
		return ColorGood
	case analyzer.StatusFair:
		return ColorFair
	case analyzer.StatusPoor:
		return ColorPoor
	case analyzer.StatusCritical:
		return ColorCritical
	default:
		return ColorUnknown
	}
}

// MetricCards lists the cards for m in display order. It returns nil when
// the report carried no metrics.
func MetricCards(m *analyzer.AnalysisMetrics) []MetricCard {
	if m == nil {
		return nil
	}

	cards := []MetricCard{
		newCard("technical", "Technical SEO", m.Technical),
		newCard("onPage", "On-Page SEO", m.OnPage),
		newCard("content", "Content Quality", m.Content),
		newCard("keywords", "Keyword Strategy", m.Keywords),
	}
	if m.AIReadiness != nil {
		cards = append(cards, newCard("aiReadiness", "AI Readiness", *m.AIReadiness))
	}
	return cards
}

func newCard(key, label string, metric analyzer.AnalysisMetric) MetricCard {
	return MetricCard{
		Key:    key,
		Label:  label,
		Score:  metric.Score,
		Status: metric.Status,
		Color:  StatusColor(metric.Status),
	}
}
