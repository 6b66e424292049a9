package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/auditor/analyzer"
	"github.com/seo-optimizer/auditor/assistant"
	"github.com/seo-optimizer/auditor/config"
	"github.com/seo-optimizer/auditor/gemini"
)

var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "seo-auditor",
	Short: "SEO and AI-search readiness auditor",
	Long: `seo-auditor generates SEO audit reports with a hosted model that can
search the web, answers follow-up questions about the last report and builds
llms.txt files.

Without a subcommand the HTTP API is started (same as "serve").`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads .env files and the environment
func loadConfig() (*config.Config, error) {
	config.LoadDotEnv()
	return config.Load()
}

func setupGinMode(cfg *config.Config) {
	mode := cfg.Server.GinMode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

// services are the model-backed components shared by every command
type services struct {
	analyzer *analyzer.Analyzer
	chat     *assistant.Session
}

// newServices wires the Gemini client into the analyzer and the chat
// session. Without an API key both are still built and fail on use.
func newServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*services, error) {
	var (
		model     analyzer.Model
		chatModel assistant.ChatModel
	)

	client, err := gemini.New(ctx, gemini.Config{
		APIKey:    cfg.Gemini.APIKey,
		Model:     cfg.Gemini.Model,
		ChatModel: cfg.Gemini.ChatModel,
	}, logger)
	switch {
	case errors.Is(err, gemini.ErrNoAPIKey):
		logger.Warn("GEMINI_API_KEY is not set; analysis and chat are disabled")
	case err != nil:
		return nil, err
	default:
		model = client
		chatModel = client
	}

	session := assistant.NewSession(chatModel, logger)
	a := analyzer.New(model,
		analyzer.WithLogger(logger),
		analyzer.WithReportSink(session),
		analyzer.WithThinkingBudget(cfg.Gemini.ThinkingBudget),
	)

	return &services{analyzer: a, chat: session}, nil
}
