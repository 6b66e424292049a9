package report

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 5.0
)

var (
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	emphasis      = strings.NewReplacer("**", "", "__", "", "`", "")
	tableDivider  = regexp.MustCompile(`^\|?\s*:?-{3,}`)
	orderedPrefix = regexp.MustCompile(`^\d+\.\s+`)
)

// PDFFilename is the download name of a report exported on day
func PDFFilename(day time.Time) string {
	return "SEO_Report_" + day.Format("2006-01-02") + ".pdf"
}

// WritePDF exports view as an A4 portrait document with 10mm margins
func WritePDF(w io.Writer, view View) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("SEO Report "+view.TargetURL, true)
	pdf.SetCreator("seo-auditor", true)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 10, "Analysis Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 6, tr(view.TargetURL+"  "+view.GeneratedAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeCards(pdf, tr, view.Cards)

	for _, s := range view.Sections {
		writeMarkdown(pdf, tr, s.Content)
	}

	writeSources(pdf, tr, view.Sources)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeCards(pdf *fpdf.Fpdf, tr func(string) string, cards []MetricCard) {
	if len(cards) == 0 {
		return
	}

	pageW, _ := pdf.GetPageSize()
	cellW := (pageW - 2*pdfMargin) / float64(len(cards))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range cards {
		r, g, b := hexRGB(c.Color)
		pdf.SetFillColor(r, g, b)
		pdf.CellFormat(cellW, 8, tr(c.Label), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(15, 23, 42)
	for _, c := range cards {
		pdf.CellFormat(cellW, 8, fmt.Sprintf("%d / 100  %s", c.Score, c.Status), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(12)
}

func writeMarkdown(pdf *fpdf.Fpdf, tr func(string) string, content string) {
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			pdf.Ln(2)
		case strings.HasPrefix(trimmed, "### "):
			heading(pdf, tr, trimmed[4:], 12)
		case strings.HasPrefix(trimmed, "## "):
			heading(pdf, tr, trimmed[3:], 14)
		case strings.HasPrefix(trimmed, "# "):
			heading(pdf, tr, trimmed[2:], 16)
		case trimmed == "---" || trimmed == "***":
			x, y := pdf.GetXY()
			pageW, _ := pdf.GetPageSize()
			pdf.SetDrawColor(226, 232, 240)
			pdf.Line(x, y+1, pageW-pdfMargin, y+1)
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "|"):
			if tableDivider.MatchString(trimmed) {
				continue
			}
			cells := strings.Split(strings.Trim(trimmed, "|"), "|")
			for i := range cells {
				cells[i] = plainText(cells[i])
			}
			pdf.SetFont("Courier", "", 8)
			pdf.SetTextColor(51, 65, 85)
			pdf.MultiCell(0, 4, tr(strings.Join(cells, " | ")), "B", "L", false)
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			indent := float64(len(line)-len(strings.TrimLeft(line, " "))) / 2
			body(pdf, tr, strings.Repeat("  ", int(indent))+"- "+plainText(trimmed[2:]))
		case orderedPrefix.MatchString(trimmed):
			body(pdf, tr, plainText(trimmed))
		case strings.HasPrefix(trimmed, "> "):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(71, 85, 105)
			pdf.MultiCell(0, pdfLineHeight, tr(plainText(trimmed[2:])), "L", "L", false)
		default:
			body(pdf, tr, plainText(trimmed))
		}
	}
	pdf.Ln(4)
}

func writeSources(pdf *fpdf.Fpdf, tr func(string) string, sources []SourceLink) {
	if len(sources) == 0 {
		return
	}

	heading(pdf, tr, "Analysis Sources", 14)
	pdf.SetFont("Helvetica", "", 9)
	for _, s := range sources {
		pdf.SetTextColor(37, 99, 235)
		pdf.MultiCell(0, pdfLineHeight, tr("- "+s.Title), "", "L", false)
		pdf.SetTextColor(100, 116, 139)
		pdf.MultiCell(0, 4, tr("  "+s.URL), "", "L", false)
	}
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, text string, size float64) {
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", size)
	pdf.SetTextColor(15, 23, 42)
	pdf.MultiCell(0, size*0.5, tr(plainText(text)), "", "L", false)
	pdf.Ln(1)
}

func body(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 65, 85)
	pdf.MultiCell(0, pdfLineHeight, tr(text), "", "L", false)
}

// plainText drops inline Markdown markup, keeping link targets in parentheses
func plainText(s string) string {
	s = linkPattern.ReplaceAllString(s, "$1 ($2)")
	s = strings.ReplaceAll(s, "<br>", " ")
	return strings.TrimSpace(emphasis.Replace(s))
}

func hexRGB(hex string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(hex, "#")) != 6 {
		return 100, 116, 139
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
