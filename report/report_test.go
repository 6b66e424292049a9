package report

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/auditor/analyzer"
)

const sampleReport = "# SEO Report: example.com\n\nIntro paragraph.\n\n## Executive Summary\nStrong brand.\n\n## **2. Keyword Analysis**\n\n| Keyword | Volume |\n|---|---|\n| shoes | 1000 |\n\n### 2.1 Details\nSee [docs](https://developers.google.com/search).\n## 3. On-Page SEO Evaluation\n- title\n- meta\n"

func TestSplitSections(t *testing.T) {
	sections := SplitSections(sampleReport)
	require.Len(t, sections, 4)

	assert.Equal(t, "section-0", sections[0].ID)
	assert.Equal(t, HeaderSectionTitle, sections[0].Title)
	assert.Equal(t, "Executive Summary", sections[1].Title)
	assert.Equal(t, "2. Keyword Analysis", sections[2].Title)
	assert.Equal(t, "3. On-Page SEO Evaluation", sections[3].Title)
	assert.Equal(t, "section-3", sections[3].ID)

	assert.True(t, strings.HasPrefix(sections[2].Content, "## **2. Keyword Analysis**"))
	assert.Contains(t, sections[2].Content, "### 2.1 Details", "level three headings do not split")
}

func TestSplitSections_Lossless(t *testing.T) {
	inputs := []string{
		"",
		"no headings at all",
		"## Only\n",
		"Lead text\n## A\n\n## B\r\n##C not a heading\n## D",
		"\n\n## Starts after blank lines\ntext\n",
		sampleReport,
	}

	for _, in := range inputs {
		var b strings.Builder
		for _, s := range SplitSections(in) {
			b.WriteString(s.Content)
		}
		assert.Equal(t, in, b.String())
	}
}

func TestSplitSections_Titles(t *testing.T) {
	sections := SplitSections("Some intro\n## A\n##C glued\n")
	require.Len(t, sections, 2)
	assert.Equal(t, IntroSectionTitle, sections[0].Title)
	assert.Equal(t, "A", sections[1].Title)
	assert.Contains(t, sections[1].Content, "##C glued")

	leading := SplitSections("## First\nbody")
	require.Len(t, leading, 1)
	assert.Equal(t, "First", leading[0].Title)
}

func TestMetricCards(t *testing.T) {
	assert.Nil(t, MetricCards(nil))

	cards := MetricCards(&analyzer.AnalysisMetrics{
		Technical:   analyzer.AnalysisMetric{Score: 85, Status: "Good"},
		OnPage:      analyzer.AnalysisMetric{Score: 60, Status: "Fair"},
		Content:     analyzer.AnalysisMetric{Score: 40, Status: "Poor"},
		Keywords:    analyzer.AnalysisMetric{Score: 90, Status: "Excellent"},
		AIReadiness: &analyzer.AnalysisMetric{Score: 10, Status: "Critical"},
	})
	require.Len(t, cards, 5)

	labels := make([]string, 0, len(cards))
	colors := make([]string, 0, len(cards))
	for _, c := range cards {
		labels = append(labels, c.Label)
		colors = append(colors, c.Color)
	}
	assert.Equal(t, []string{"Technical SEO", "On-Page SEO", "Content Quality", "Keyword Strategy", "AI Readiness"}, labels)
	assert.Equal(t, []string{ColorGood, ColorFair, ColorPoor, ColorExcellent, ColorCritical}, colors)
	assert.Equal(t, ColorUnknown, StatusColor("Unknown"))
}

func TestIsExternalSource(t *testing.T) {
	tests := []struct {
		source string
		base   string
		want   bool
	}{
		{"https://www.example.com/blog", "https://example.com", false},
		{"https://blog.example.com/post", "https://example.com", false},
		{"https://rival.test/page", "https://example.com", true},
		{"not a url", "https://example.com", true},
		{"https://rival.test", "example.com", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsExternalSource(tt.source, tt.base), tt.source)
	}

	links := ClassifySources([]analyzer.GroundingSource{
		{Title: "Home", URL: "https://example.com/"},
		{Title: "Rival", URL: "https://rival.test/"},
	}, "https://www.example.com")
	assert.False(t, links[0].External)
	assert.True(t, links[1].External)
}

func TestShareLinkRoundTrip(t *testing.T) {
	req := analyzer.AnalysisRequest{
		URL:            "https://example.com",
		TargetKeywords: "running shoes, trail",
		Competitors:    "rival.test",
	}

	link, err := ShareLink("https://app.test/audit?old=1#top", req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://app.test/audit?q="))

	u, err := url.Parse(link)
	require.NoError(t, err)

	got, err := RequestFromQuery(u.Query())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestDecodeShare_Variants(t *testing.T) {
	encoded, err := EncodeShare(analyzer.AnalysisRequest{URL: "https://example.com/?a=b>c"})
	require.NoError(t, err)

	unescaped := strings.ReplaceAll(encoded, "+", " ")
	got, err := DecodeShare(unescaped)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/?a=b>c", got.URL)

	urlSafe := strings.TrimRight(strings.NewReplacer("+", "-", "/", "_").Replace(encoded), "=")
	got, err = DecodeShare(urlSafe)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/?a=b>c", got.URL)

	_, err = DecodeShare("%%%")
	assert.Error(t, err)

	_, err = DecodeShare("")
	assert.ErrorIs(t, err, ErrNoSharedRequest)
}

func TestRequestFromQuery_Legacy(t *testing.T) {
	values := url.Values{
		"url":         {"example.com"},
		"keywords":    {"shoes"},
		"competitors": {"rival.test"},
		"context":     {"B2C"},
	}
	got, err := RequestFromQuery(values)
	require.NoError(t, err)
	assert.Equal(t, analyzer.AnalysisRequest{
		URL:               "example.com",
		TargetKeywords:    "shoes",
		Competitors:       "rival.test",
		AdditionalContext: "B2C",
	}, got)

	_, err = RequestFromQuery(url.Values{})
	assert.ErrorIs(t, err, ErrNoSharedRequest)
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(sampleReport)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Find("div.table-wrapper > table.report-table").Length())
	assert.Equal(t, 2, doc.Find("th").Length())

	link := doc.Find(`a[href="https://developers.google.com/search"]`)
	require.Equal(t, 1, link.Length())
	target, _ := link.Attr("target")
	assert.Equal(t, "_blank", target)

	assert.Equal(t, doc.Find("h1, h2, h3").Length(), doc.Find(".report-heading").Length())
}

func TestRenderHTML_DropsRawHTML(t *testing.T) {
	html, err := RenderHTML("Hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func sampleView() View {
	result := &analyzer.AnalysisResult{
		Markdown: sampleReport,
		Sources: []analyzer.GroundingSource{
			{Title: "Example home", URL: "https://example.com"},
			{Title: "Rival", URL: "https://rival.test"},
		},
		Metrics: &analyzer.AnalysisMetrics{
			Technical: analyzer.AnalysisMetric{Score: 85, Status: "Good"},
			OnPage:    analyzer.AnalysisMetric{Score: 60, Status: "Fair"},
			Content:   analyzer.AnalysisMetric{Score: 40, Status: "Poor"},
			Keywords:  analyzer.AnalysisMetric{Score: 90, Status: "Excellent"},
		},
	}
	generated := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	return NewView(analyzer.AnalysisRequest{URL: "example.com"}, result, "https://app.test/?q=abc", generated)
}

func TestNewView(t *testing.T) {
	view := sampleView()
	assert.Equal(t, "https://example.com", view.TargetURL)
	assert.Len(t, view.Cards, 4)
	assert.Len(t, view.Sections, 4)
	require.Len(t, view.Sources, 2)
	assert.False(t, view.Sources[0].External)
	assert.True(t, view.Sources[1].External)

	empty := NewView(analyzer.AnalysisRequest{URL: "example.com"}, nil, "", time.Now())
	assert.Empty(t, empty.Sections)
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, sampleView()))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, 4, doc.Find(".metric-card").Length())
	assert.Equal(t, 4, doc.Find(".section-container").Length())
	assert.Equal(t, 1, doc.Find("#section-2 table").Length())
	assert.Contains(t, doc.Find(".sources").Text(), "External link")
	assert.Contains(t, doc.Find("header").Text(), "2025-11-20")
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleView()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	assert.Equal(t, "SEO_Report_2025-11-20.pdf", PDFFilename(time.Date(2025, 11, 20, 23, 0, 0, 0, time.UTC)))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Use docs (https://x.test) now", plainText("Use **[docs](https://x.test)** `now`"))
}
