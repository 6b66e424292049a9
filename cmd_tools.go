package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/auditor/analyzer"
	"github.com/seo-optimizer/auditor/config"
	"github.com/seo-optimizer/auditor/llmstxt"
	"github.com/seo-optimizer/auditor/logging"
	"github.com/seo-optimizer/auditor/report"
)

var askReport string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the SEO assistant a question",
	Long: `Ask the SEO assistant a question. With --report the answer is grounded
in that Markdown report, otherwise it is general SEO advice.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.NewCLILogger(verbose)
		defer logger.Sync()

		svc, err := newServices(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		if askReport != "" {
			data, err := readInput(cmd.InOrStdin(), askReport)
			if err != nil {
				return err
			}
			_, md, _ := analyzer.ExtractMetrics(string(data))
			svc.chat.SetReportContext(md)
		}

		reply, err := svc.chat.Ask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

var llmsTxtFlags struct {
	input    string
	template string
	out      string
}

var llmsTxtCmd = &cobra.Command{
	Use:   "llms-txt",
	Short: "Generate an llms.txt file",
	Long: `Generate an llms.txt file from a YAML or JSON form file and/or a
built-in template. Fields in the form file override the template.`,
	Example: `  seo-auditor llms-txt --template saas
  seo-auditor llms-txt --input company.yaml --out llms.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := loadForm(cmd.InOrStdin(), llmsTxtFlags.template, llmsTxtFlags.input)
		if err != nil {
			return err
		}

		text := llmstxt.Generate(form, time.Now())
		if llmsTxtFlags.out == "" || llmsTxtFlags.out == "-" {
			_, err := io.WriteString(cmd.OutOrStdout(), text)
			return err
		}
		if err := os.WriteFile(llmsTxtFlags.out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", llmsTxtFlags.out, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", green.Sprint("Written to"), llmsTxtFlags.out)
		return nil
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections <report.md>",
	Short: "Split a Markdown report into sections (YAML output)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(report.SplitSections(string(md)))
	},
}

var shareFlags struct {
	keywords    string
	competitors string
	context     string
	base        string
	decode      bool
}

var shareCmd = &cobra.Command{
	Use:   "share <url | link>",
	Short: "Build a share link, or decode one with --decode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if shareFlags.decode {
			req, err := decodeShareArg(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(req)
		}

		base := shareFlags.base
		if base == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			base = defaultShareBase(cfg)
		}

		link, err := report.ShareLink(base, analyzer.AnalysisRequest{
			URL:               args[0],
			TargetKeywords:    shareFlags.keywords,
			Competitors:       shareFlags.competitors,
			AdditionalContext: shareFlags.context,
		}.Normalize())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askReport, "report", "r", "", "Markdown report to ground the answer in ('-' for stdin)")

	llmsTxtCmd.Flags().StringVarP(&llmsTxtFlags.input, "input", "i", "", "Form data file, YAML or JSON ('-' for stdin)")
	llmsTxtCmd.Flags().StringVarP(&llmsTxtFlags.template, "template", "t", "", "Built-in template: "+strings.Join(llmstxt.TemplateNames(), ", "))
	llmsTxtCmd.Flags().StringVarP(&llmsTxtFlags.out, "out", "o", "", "Output file (default stdout)")

	shareCmd.Flags().StringVarP(&shareFlags.keywords, "keywords", "k", "", "Target keywords")
	shareCmd.Flags().StringVarP(&shareFlags.competitors, "competitors", "c", "", "Competitor domains")
	shareCmd.Flags().StringVar(&shareFlags.context, "context", "", "Additional business context")
	shareCmd.Flags().StringVar(&shareFlags.base, "base", "", "Page the link points at (default PUBLIC_BASE_URL or http://localhost:PORT/)")
	shareCmd.Flags().BoolVarP(&shareFlags.decode, "decode", "d", false, "Decode a share link or encoded value instead")

	rootCmd.AddCommand(askCmd, llmsTxtCmd, sectionsCmd, shareCmd)
}

// readInput reads a file, or stdin for "-"
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// loadForm starts from the named template (or the empty form) and overlays
// the form file. JSON is valid YAML, so one decoder covers both.
func loadForm(stdin io.Reader, template, path string) (llmstxt.FormData, error) {
	form := llmstxt.NewFormData()
	if template != "" {
		t, err := llmstxt.Template(template)
		if err != nil {
			return form, err
		}
		form = t
	}
	if path == "" {
		return form, nil
	}

	data, err := readInput(stdin, path)
	if err != nil {
		return form, err
	}
	if err := yaml.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("parse %s: %w", path, err)
	}
	return form, nil
}

func defaultShareBase(cfg *config.Config) string {
	if cfg.Server.PublicBaseURL != "" {
		return cfg.Server.PublicBaseURL
	}
	return fmt.Sprintf("http://localhost:%d/", cfg.Server.Port)
}

// decodeShareArg accepts a full share link or just the encoded value
func decodeShareArg(arg string) (analyzer.AnalysisRequest, error) {
	if strings.Contains(arg, "?") {
		u, err := url.Parse(arg)
		if err != nil {
			return analyzer.AnalysisRequest{}, fmt.Errorf("parse link: %w", err)
		}
		return report.RequestFromQuery(u.Query())
	}
	return report.DecodeShare(arg)
}
