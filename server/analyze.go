package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/auditor/analyzer"
	"github.com/seo-optimizer/auditor/report"
	"github.com/seo-optimizer/auditor/stats"
)

type analyzeResponse struct {
	Request  analyzer.AnalysisRequest `json:"request"`
	Result   *analyzer.AnalysisResult `json:"result"`
	Sections []report.Section         `json:"sections"`
	ShareURL string                   `json:"shareUrl,omitempty"`
}

type progressEvent struct {
	Label string `json:"label"`
	Chars int    `json:"chars"`
}

type outcome struct {
	result *analyzer.AnalysisResult
	err    error
}

func (s *Server) analyze(c *gin.Context) {
	req, ok := s.bindRequest(c)
	if !ok {
		return
	}

	start := time.Now()
	s.reportStarted()
	result, err := s.analyzer.Analyze(c.Request.Context(), req, nil)
	s.reportFinished(req, result, err, time.Since(start))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, s.response(c, req, result))
}

func (s *Server) analyzeStream(c *gin.Context) {
	req, ok := s.bindRequest(c)
	if !ok {
		return
	}
	s.stream(c, req)
}

// shared resolves a share link and immediately generates its report
func (s *Server) shared(c *gin.Context) {
	req, err := report.RequestFromQuery(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid share link: " + err.Error(),
		})
		return
	}
	req = req.Normalize()
	if !s.checkAnalyzer(c) {
		return
	}
	s.stream(c, req)
}

func (s *Server) bindRequest(c *gin.Context) (analyzer.AnalysisRequest, bool) {
	var req analyzer.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return req, false
	}

	req = req.Normalize()
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Please enter a URL",
		})
		return req, false
	}
	return req, s.checkAnalyzer(c)
}

func (s *Server) checkAnalyzer(c *gin.Context) bool {
	if !s.analyzer.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": analyzer.ErrMissingAPIKey.Error(),
		})
		return false
	}
	return true
}

// stream runs one generation and reports it as server-sent events: a
// progress event whenever the label changes, then a single result or error.
func (s *Server) stream(c *gin.Context, req analyzer.AnalysisRequest) {
	ctx := c.Request.Context()
	updates := make(chan analyzer.Update)
	done := make(chan outcome, 1)

	start := time.Now()
	s.reportStarted()
	go func() {
		result, err := s.analyzer.Analyze(ctx, req, updates)
		done <- outcome{result: result, err: err}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	label := analyzer.InitialProgressLabel
	s.event(c, "progress", progressEvent{Label: label})

	for u := range updates {
		next := analyzer.ProgressLabel(u.Text)
		if next == "" {
			next = analyzer.GeneratingProgressLabel
		}
		if next == label {
			continue
		}
		label = next
		s.event(c, "progress", progressEvent{Label: label, Chars: len(u.Text)})
	}

	out := <-done
	s.reportFinished(req, out.result, out.err, time.Since(start))

	switch {
	case out.err == nil:
		s.event(c, "result", s.response(c, req, out.result))
	case errors.Is(out.err, context.Canceled):
		// client went away
	default:
		s.event(c, "error", gin.H{
			"error":  out.err.Error(),
			"status": errorStatus(out.err),
		})
	}
}

func (s *Server) event(c *gin.Context, name string, data any) {
	c.SSEvent(name, data)
	c.Writer.Flush()
}

func (s *Server) response(c *gin.Context, req analyzer.AnalysisRequest, result *analyzer.AnalysisResult) analyzeResponse {
	return analyzeResponse{
		Request:  req,
		Result:   result,
		Sections: report.SplitSections(result.Markdown),
		ShareURL: s.shareLink(c, req),
	}
}

func (s *Server) reportStarted() {
	if s.metrics != nil {
		s.metrics.ReportsInFlight.Inc()
	}
}

// reportFinished keeps the result for the report views and records the
// generation in every statistics sink.
func (s *Server) reportFinished(req analyzer.AnalysisRequest, result *analyzer.AnalysisResult, err error, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.ReportsInFlight.Dec()
	}

	if errors.Is(err, context.Canceled) {
		s.logger.Info("Report generation cancelled", zap.String("url", req.URL))
		return
	}

	failed := err != nil
	if !failed {
		s.setLastReport(req, result)
	}

	if s.stats != nil {
		s.stats.TrackReport(req.URL, duration, failed)
		if s.stats.TotalRequests()%100 == 0 {
			go func() {
				if err := s.stats.Save(); err != nil {
					s.logger.Warn("Failed to save statistics", zap.Error(err))
				}
			}()
		}
	}

	usage := stats.Usage{}
	switch {
	case failed:
		usage.ReportsFailed = 1
	case result.Metrics == nil:
		usage.ReportsGenerated = 1
		usage.MetricsMissing = 1
	default:
		usage.ReportsGenerated = 1
	}
	if s.usage != nil {
		s.usage.Add(usage)
	}

	if s.metrics == nil {
		return
	}
	if failed {
		s.metrics.RecordReportFailure(duration)
		return
	}
	s.metrics.RecordReport(duration, len(result.Markdown), len(result.Sources), result.Metrics != nil)
}
