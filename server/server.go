// Package server exposes the auditor over HTTP with gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/auditor/analyzer"
	"github.com/seo-optimizer/auditor/assistant"
	"github.com/seo-optimizer/auditor/config"
	"github.com/seo-optimizer/auditor/logging"
	"github.com/seo-optimizer/auditor/metrics"
	"github.com/seo-optimizer/auditor/middleware"
	"github.com/seo-optimizer/auditor/report"
	"github.com/seo-optimizer/auditor/stats"
)

// Deps are the services the HTTP layer is built on. Statistics, Usage and
// Metrics are optional.
type Deps struct {
	Analyzer   *analyzer.Analyzer
	Chat       *assistant.Session
	Statistics *logging.Statistics
	Usage      *stats.Storage
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// Server holds the HTTP handlers and the last generated report
type Server struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	chat     *assistant.Session
	stats    *logging.Statistics
	usage    *stats.Storage
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time

	mu   sync.RWMutex
	last *lastReport
}

type lastReport struct {
	request     analyzer.AnalysisRequest
	result      *analyzer.AnalysisResult
	generatedAt time.Time
}

// New creates a Server
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		analyzer: deps.Analyzer,
		chat:     deps.Chat,
		stats:    deps.Statistics,
		usage:    deps.Usage,
		metrics:  deps.Metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Router builds the gin engine with middleware and all routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.ErrorHandler(s.logger))
	r.Use(middleware.CORS(s.cfg.Server.CORSAllowedOrigins))
	r.Use(middleware.StatsMiddleware(s.stats, s.metrics))

	api := r.Group("/api")
	{
		api.GET("/health", s.health)

		api.POST("/analyze", s.analyze)
		api.POST("/analyze/stream", s.analyzeStream)
		api.GET("/shared", s.shared)

		api.GET("/report", s.reportView)
		api.GET("/report/sections", s.reportSections)
		api.GET("/report/html", s.reportHTML)
		api.GET("/report/pdf", s.reportPDF)
		api.GET("/report/share", s.reportShare)
		api.POST("/share", s.share)

		api.POST("/chat", s.chatSend)
		api.GET("/chat/messages", s.chatMessages)

		api.POST("/llms-txt", s.llmsTxt)
		api.GET("/llms-txt/templates/:name", s.llmsTxtTemplate)
		api.GET("/llms-txt/steps", s.llmsTxtSteps)

		api.GET("/statistics", s.statistics)
		api.GET("/statistics/usage", s.usageStats)
	}

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Server exited")
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (s *Server) lastReport() (lastReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return lastReport{}, false
	}
	return *s.last, true
}

func (s *Server) setLastReport(req analyzer.AnalysisRequest, result *analyzer.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &lastReport{
		request:     req,
		result:      result,
		generatedAt: s.now(),
	}
}

// shareBase is the page share links point at: the configured public URL or,
// failing that, the root of the host the request came in on.
func (s *Server) shareBase(c *gin.Context) string {
	if base := strings.TrimSpace(s.cfg.Server.PublicBaseURL); base != "" {
		return base
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/"
}

func (s *Server) shareLink(c *gin.Context, req analyzer.AnalysisRequest) string {
	link, err := report.ShareLink(s.shareBase(c), req)
	if err != nil {
		s.logger.Warn("Failed to build share link", zap.Error(err))
		return ""
	}
	return link
}

// errorStatus maps a service error to the HTTP status reported for it
func errorStatus(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrMissingAPIKey), errors.Is(err, assistant.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, analyzer.ErrEmptyURL):
		return http.StatusBadRequest
	case errors.Is(err, analyzer.ErrGenerationFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
