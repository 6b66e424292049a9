package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/seo-optimizer/auditor/analyzer"
	"github.com/seo-optimizer/auditor/logging"
	"github.com/seo-optimizer/auditor/report"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

var analyzeFlags struct {
	keywords    string
	competitors string
	context     string
	out         string
	pdf         string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Generate an SEO audit report for a website",
	Long: `Generate a full SEO and AI-search readiness report for a website.

The Markdown report is written to stdout (or --out); metric scores, sources
and the share link are printed to stderr.`,
	Example: `  seo-auditor analyze example.com
  seo-auditor analyze example.com --keywords "running shoes" --out report.md --pdf report.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.keywords, "keywords", "k", "", "Target keywords, comma separated")
	f.StringVarP(&analyzeFlags.competitors, "competitors", "c", "", "Competitor domains, comma separated")
	f.StringVar(&analyzeFlags.context, "context", "", "Additional business context")
	f.StringVarP(&analyzeFlags.out, "out", "o", "", "Write the Markdown report to this file")
	f.StringVar(&analyzeFlags.pdf, "pdf", "", "Also export the report as PDF to this file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewCLILogger(verbose)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	svc, err := newServices(ctx, cfg, logger)
	if err != nil {
		return err
	}

	req := analyzer.AnalysisRequest{
		URL:               args[0],
		TargetKeywords:    analyzeFlags.keywords,
		Competitors:       analyzeFlags.competitors,
		AdditionalContext: analyzeFlags.context,
	}.Normalize()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s %s\n\n", cyan.Sprint("Auditing"), bold.Sprint(req.URL))

	start := time.Now()
	result, err := analyzeWithSpinner(ctx, svc.analyzer, req, stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "%s in %s\n\n", green.Sprint("Report generated"), time.Since(start).Round(time.Second))

	printMetrics(stderr, result.Metrics)
	printSources(stderr, report.ClassifySources(result.Sources, req.URL))

	if base := cfg.Server.PublicBaseURL; base != "" {
		if link, err := report.ShareLink(base, req); err == nil {
			fmt.Fprintf(stderr, "%s %s\n", bold.Sprint("Share:"), link)
		}
	}

	if err := writeReport(cmd.OutOrStdout(), analyzeFlags.out, result.Markdown); err != nil {
		return err
	}

	if analyzeFlags.pdf != "" {
		view := report.NewView(req, result, "", time.Now())
		if err := writePDFFile(analyzeFlags.pdf, view); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "%s %s\n", green.Sprint("PDF written to"), analyzeFlags.pdf)
	}

	return nil
}

// analyzeWithSpinner runs one generation while a spinner shows the progress label
func analyzeWithSpinner(ctx context.Context, a *analyzer.Analyzer, req analyzer.AnalysisRequest, w io.Writer) (*analyzer.AnalysisResult, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("   "+analyzer.InitialProgressLabel),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	updates := make(chan analyzer.Update)
	done := make(chan struct{})
	var (
		result *analyzer.AnalysisResult
		err    error
	)
	go func() {
		defer close(done)
		result, err = a.Analyze(ctx, req, updates)
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	label := analyzer.InitialProgressLabel
	for open := true; open; {
		select {
		case u, ok := <-updates:
			if !ok {
				open = false
				break
			}
			next := analyzer.ProgressLabel(u.Text)
			if next == "" {
				next = analyzer.GeneratingProgressLabel
			}
			if next != label {
				label = next
				bar.Describe("   " + label)
			}
		case <-ticker.C:
			bar.Add(1)
		}
	}

	<-done
	bar.Finish()
	fmt.Fprintln(w)
	return result, err
}

func statusColor(status string) *color.Color {
	switch status {
	case analyzer.StatusExcellent, analyzer.StatusGood:
		return green
	case analyzer.StatusFair:
		return yellow
	case analyzer.StatusPoor, analyzer.StatusCritical:
		return red
	default:
		return dim
	}
}

func printMetrics(w io.Writer, m *analyzer.AnalysisMetrics) {
	cards := report.MetricCards(m)
	if len(cards) == 0 {
		fmt.Fprintln(w, yellow.Sprint("No metrics block in the report"))
		fmt.Fprintln(w)
		return
	}

	bold.Fprintln(w, "Metrics")
	for _, card := range cards {
		fmt.Fprintf(w, "  %-18s %3d  %s\n", card.Label, card.Score, statusColor(card.Status).Sprint(card.Status))
	}
	fmt.Fprintln(w)
}

func printSources(w io.Writer, sources []report.SourceLink) {
	if len(sources) == 0 {
		return
	}
	bold.Fprintf(w, "Sources (%d)\n", len(sources))
	for _, src := range sources {
		kind := "internal"
		if src.External {
			kind = "external"
		}
		fmt.Fprintf(w, "  %s %s\n", dim.Sprintf("[%s]", kind), src.URL)
	}
	fmt.Fprintln(w)
}

func writeReport(stdout io.Writer, path, markdown string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(stdout, strings.TrimRight(markdown, "\n")+"\n")
		return err
	}
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writePDFFile(path string, view report.View) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := report.WritePDF(f, view); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
