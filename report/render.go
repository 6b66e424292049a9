package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/seo-optimizer/auditor/analyzer"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

//go:embed templates/page.html
var pageTemplateText string

var pageTemplate = template.Must(template.New("page").Parse(pageTemplateText))

// View is everything needed to present one finished report
type View struct {
	TargetURL   string       `json:"targetUrl"`
	GeneratedAt time.Time    `json:"generatedAt"`
	ShareURL    string       `json:"shareUrl,omitempty"`
	Cards       []MetricCard `json:"cards"`
	Sections    []Section    `json:"sections"`
	Sources     []SourceLink `json:"sources"`
	Markdown    string       `json:"markdown"`
}

// NewView assembles the presentation model for a finished report
func NewView(req analyzer.AnalysisRequest, result *analyzer.AnalysisResult, shareURL string, generatedAt time.Time) View {
	req = req.Normalize()
	view := View{
		TargetURL:   req.URL,
		GeneratedAt: generatedAt,
		ShareURL:    shareURL,
	}
	if result == nil {
		return view
	}

	view.Markdown = result.Markdown
	view.Cards = MetricCards(result.Metrics)
	view.Sections = SplitSections(result.Markdown)
	view.Sources = ClassifySources(result.Sources, req.URL)
	return view
}

// RenderHTML converts report Markdown (GitHub flavoured, tables included)
// into an HTML fragment. Tables are wrapped for horizontal scrolling,
// headings get anchor ids and absolute links open in a new tab.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", fmt.Errorf("parse rendered html: %w", err)
	}

	body := doc.Find("body")

	body.Find("table").Each(func(_ int, s *goquery.Selection) {
		s.AddClass("report-table")
		s.WrapHtml(`<div class="table-wrapper"></div>`)
	})

	body.Find("h1, h2, h3").Each(func(i int, s *goquery.Selection) {
		s.AddClass("report-heading")
		if _, ok := s.Attr("id"); !ok {
			s.SetAttr("id", fmt.Sprintf("heading-%d", i))
		}
	})

	body.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			s.SetAttr("target", "_blank")
			s.SetAttr("rel", "noopener noreferrer")
		}
	})

	html, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("serialize html: %w", err)
	}
	return strings.TrimSpace(html), nil
}

type pageSection struct {
	ID    string
	Title string
	HTML  template.HTML
}

type pageData struct {
	View
	Date     string
	Sections []pageSection
}

// RenderPage writes a standalone HTML document for view
func RenderPage(w io.Writer, view View) error {
	data := pageData{
		View: view,
		Date: view.GeneratedAt.Format("2006-01-02"),
	}

	for _, s := range view.Sections {
		html, err := RenderHTML(s.Content)
		if err != nil {
			return fmt.Errorf("render %s: %w", s.ID, err)
		}
		data.Sections = append(data.Sections, pageSection{
			ID:    s.ID,
			Title: s.Title,
			// goldmark omits raw HTML from the source unless built with WithUnsafe.
			HTML: template.HTML(html),
		})
	}

	return pageTemplate.Execute(w, data)
}
