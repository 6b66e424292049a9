package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/auditor/logging"
	"github.com/seo-optimizer/auditor/metrics"
	"github.com/seo-optimizer/auditor/server"
	"github.com/seo-optimizer/auditor/stats"
)

const usageRetentionMonths = 12

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API on PORT (default 8082).

Configuration is read from .env.development or .env and the environment;
see GEMINI_API_KEY, GEMINI_MODEL, DATA_DIR, DEV_MODE and PUBLIC_BASE_URL.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.IsDevelopment())
	defer logger.Sync()

	setupGinMode(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newServices(ctx, cfg, logger)
	if err != nil {
		return err
	}

	statistics := logging.NewStatistics(cfg.DataDir, cfg.DevMode, logger)
	if err := statistics.Load(); err != nil {
		logger.Warn("Failed to load statistics", zap.Error(err))
	}

	usage, err := stats.NewStorage(cfg.DataDir, logger)
	if err != nil {
		return err
	}
	usage.Cleanup(usageRetentionMonths)

	srv := server.New(cfg, server.Deps{
		Analyzer:   svc.analyzer,
		Chat:       svc.chat,
		Statistics: statistics,
		Usage:      usage,
		Metrics:    metrics.New("seo_auditor"),
		Logger:     logger,
	})

	logger.Info("Configuration loaded",
		zap.String("env", string(cfg.Env)),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("api_key", cfg.HasAPIKey()),
		zap.String("model", cfg.Gemini.Model),
	)

	runErr := srv.Run(ctx)

	if err := statistics.Save(); err != nil {
		logger.Warn("Failed to save statistics", zap.Error(err))
	}
	usage.Shutdown()

	if runErr != nil && runErr != context.Canceled {
		return runErr
	}
	return nil
}
