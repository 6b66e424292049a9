package main

import (
	"github.com/spf13/cobra"

	"github.com/seo-optimizer/auditor/logging"
	"github.com/seo-optimizer/auditor/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server on stdio",
	Long: `Start an MCP (Model Context Protocol) server on stdio so AI agents can
use the auditor as tools.

Available Tools:
  seo_audit           Full SEO audit of a website
  seo_chat            Ask the assistant, grounded in the last audit
  split_report        Split a Markdown report into sections
  generate_llms_txt   Build an llms.txt document`,
	Args: cobra.NoArgs,
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

		return mcpserver.New(svc.analyzer, svc.chat, version, logger).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
