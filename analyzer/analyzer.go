package analyzer

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrMissingAPIKey is returned when no model credential was configured.
	ErrMissingAPIKey = errors.New("API key is missing from environment variables")

	// ErrGenerationFailed replaces any transport or model error raised while streaming.
	ErrGenerationFailed = errors.New("failed to generate SEO report, please check your API key and try again")

	// ErrEmptyURL is returned when the request carries no URL at all.
	ErrEmptyURL = errors.New("a URL is required")
)

// DefaultThinkingBudget is the reasoning budget hint sent with every report request
const DefaultThinkingBudget int32 = 4096

const emptyReportText = "No analysis generated."

// GenerateRequest is what the hosted model receives for one report
type GenerateRequest struct {
	SystemInstruction string
	Prompt            string
	WebSearch         bool
	ThinkingBudget    int32
}

// Chunk is one streamed response fragment with the citations attached to it
type Chunk struct {
	Text      string
	Citations []GroundingSource
}

// Model streams report text from a hosted generative model
type Model interface {
	GenerateStream(ctx context.Context, req GenerateRequest) iter.Seq2[Chunk, error]
}

// ReportSink receives the cleaned Markdown of every finished report
type ReportSink interface {
	SetReportContext(markdown string)
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithReportSink registers the component that keeps the last report as chat context
func WithReportSink(sink ReportSink) Option {
	return func(a *Analyzer) {
		a.sink = sink
	}
}

// WithThinkingBudget overrides the reasoning budget hint
func WithThinkingBudget(budget int32) Option {
	return func(a *Analyzer) {
		if budget > 0 {
			a.thinkingBudget = budget
		}
	}
}

// Analyzer generates SEO reports through a hosted model with web search enabled
type Analyzer struct {
	model          Model
	sink           ReportSink
	logger         *zap.Logger
	thinkingBudget int32
}

// New creates an Analyzer. A nil model makes every Analyze call fail with
// ErrMissingAPIKey.
func New(model Model, opts ...Option) *Analyzer {
	a := &Analyzer{
		model:          model,
		logger:         zap.NewNop(),
		thinkingBudget: DefaultThinkingBudget,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Configured reports whether a model credential is available
func (a *Analyzer) Configured() bool {
	return a.model != nil
}

// Analyze streams one report for req.
//
// Every received fragment is forwarded on updates (when non-nil) in arrival
// order, and updates is closed before Analyze returns. The result is only
// produced once the stream has ended; on failure no partial result is
// returned.
func (a *Analyzer) Analyze(ctx context.Context, req AnalysisRequest, updates chan<- Update) (*AnalysisResult, error) {
	if updates != nil {
		defer close(updates)
	}

	if a.model == nil {
		return nil, ErrMissingAPIKey
	}

	req = req.Normalize()
	if req.URL == "" {
		return nil, ErrEmptyURL
	}

	start := time.Now()
	genReq := GenerateRequest{
		SystemInstruction: SystemInstruction(),
		Prompt:            BuildPrompt(req),
		WebSearch:         true,
		ThinkingBudget:    a.thinkingBudget,
	}

	var (
		buf       strings.Builder
		citations []GroundingSource
	)

	for chunk, err := range a.model.GenerateStream(ctx, genReq) {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			a.logger.Error("Report stream failed",
				zap.String("url", req.URL),
				zap.Error(err),
			)
			return nil, ErrGenerationFailed
		}

		citations = append(citations, chunk.Citations...)
		if chunk.Text == "" {
			continue
		}
		buf.WriteString(chunk.Text)

		if updates == nil {
			continue
		}
		select {
		case updates <- Update{Delta: chunk.Text, Text: buf.String()}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	raw := buf.String()
	if raw == "" {
		raw = emptyReportText
	}

	metrics, markdown, err := ExtractMetrics(raw)
	if err != nil {
		a.logger.Warn("Failed to parse metrics block",
			zap.String("url", req.URL),
			zap.Error(err),
		)
	}

	result := &AnalysisResult{
		Markdown: markdown,
		Sources:  DedupeSources(citations),
		Metrics:  metrics,
	}

	if a.sink != nil {
		a.sink.SetReportContext(result.Markdown)
	}

	a.logger.Info("Report generated",
		zap.String("url", req.URL),
		zap.Int("chars", len(result.Markdown)),
		zap.Int("sources", len(result.Sources)),
		zap.Bool("metrics", result.Metrics != nil),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}
