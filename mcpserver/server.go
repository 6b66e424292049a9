// Package mcpserver exposes the auditor as MCP tools so agents can request
// audits, ask follow-up questions and build llms.txt files over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/auditor/analyzer"
	"github.com/seo-optimizer/auditor/assistant"
	"github.com/seo-optimizer/auditor/llmstxt"
	"github.com/seo-optimizer/auditor/report"
)

// Tool names
const (
	ToolAudit    = "seo_audit"
	ToolChat     = "seo_chat"
	ToolSections = "split_report"
	ToolLlmsTxt  = "generate_llms_txt"
)

// Server wraps the MCP server with the auditor services
type Server struct {
	mcpServer *server.MCPServer
	analyzer  *analyzer.Analyzer
	chat      *assistant.Session
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.RWMutex
	tools map[string]bool
}

// New creates the MCP server and registers every tool
func New(a *analyzer.Analyzer, chat *assistant.Session, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcpServer: server.NewMCPServer(
			"seo-auditor",
			version,
			server.WithToolCapabilities(false),
		),
		analyzer: a,
		chat:     chat,
		logger:   logger,
		now:      time.Now,
		tools:    make(map[string]bool),
	}

	s.registerAuditTool()
	s.registerChatTool()
	s.registerSectionsTool()
	s.registerLlmsTxtTool()

	return s
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ListTools returns the registered tool names, sorted
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	sort.Strings(tools)
	return tools
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)

	s.mu.Lock()
	s.tools[tool.Name] = true
	s.mu.Unlock()
}

func (s *Server) registerAuditTool() {
	tool := mcp.NewTool(ToolAudit,
		mcp.WithDescription("Run a full SEO and AI-search readiness audit of a website. Returns the Markdown report, metric scores and cited sources. Takes several minutes."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Website to audit; https:// is assumed when no scheme is given"),
		),
		mcp.WithString("keywords",
			mcp.Description("Target keywords, comma separated"),
		),
		mcp.WithString("competitors",
			mcp.Description("Competitor domains, comma separated"),
		),
		mcp.WithString("context",
			mcp.Description("Free-text business context"),
		),
	)
	s.addTool(tool, s.handleAudit)
}

func (s *Server) registerChatTool() {
	tool := mcp.NewTool(ToolChat,
		mcp.WithDescription("Ask the SEO assistant a question. Answers are grounded in the most recent audit when one exists."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Question to ask"),
		),
	)
	s.addTool(tool, s.handleChat)
}

func (s *Server) registerSectionsTool() {
	tool := mcp.NewTool(ToolSections,
		mcp.WithDescription("Split a Markdown report into its level-2 sections. Returns YAML."),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Report Markdown"),
		),
	)
	s.addTool(tool, s.handleSections)
}

func (s *Server) registerLlmsTxtTool() {
	tool := mcp.NewTool(ToolLlmsTxt,
		mcp.WithDescription("Generate an llms.txt document from company information."),
		mcp.WithString("form",
			mcp.Description("Form data as YAML or JSON (companyName, websiteUrl, products, ...)"),
		),
		mcp.WithString("template",
			mcp.Description("Built-in template to start from: "+strings.Join(llmstxt.TemplateNames(), ", ")),
		),
	)
	s.addTool(tool, s.handleLlmsTxt)
}

func (s *Server) handleAudit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	target, ok := args["url"].(string)
	if !ok || strings.TrimSpace(target) == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}

	request := analyzer.AnalysisRequest{URL: target}
	request.TargetKeywords, _ = args["keywords"].(string)
	request.Competitors, _ = args["competitors"].(string)
	request.AdditionalContext, _ = args["context"].(string)

	s.logger.Info("MCP audit requested", zap.String("url", target))
	result, err := s.analyzer.Analyze(ctx, request, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAudit(request.Normalize(), result)), nil
}

func (s *Server) handleChat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	message, ok := args["message"].(string)
	if !ok || strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("message parameter is required"), nil
	}

	reply, err := s.chat.Ask(ctx, strings.TrimSpace(message))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) handleSections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	markdown, ok := args["markdown"].(string)
	if !ok || markdown == "" {
		return mcp.NewToolResultError("markdown parameter is required"), nil
	}

	out, err := yaml.Marshal(report.SplitSections(markdown))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode sections: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleLlmsTxt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	form := llmstxt.NewFormData()
	if name, _ := args["template"].(string); name != "" {
		t, err := llmstxt.Template(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		form = t
	}

	// JSON is valid YAML, so one decoder covers both.
	if raw, _ := args["form"].(string); strings.TrimSpace(raw) != "" {
		if err := yaml.Unmarshal([]byte(raw), &form); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid form data: %v", err)), nil
		}
	}

	return mcp.NewToolResultText(llmstxt.Generate(form, s.now())), nil
}

// formatAudit renders a finished audit as Markdown: scores, report, sources
func formatAudit(req analyzer.AnalysisRequest, result *analyzer.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# SEO audit: %s\n\n", req.URL)

	if cards := report.MetricCards(result.Metrics); len(cards) > 0 {
		b.WriteString("| Metric | Score | Status |\n|---|---|---|\n")
		for _, card := range cards {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", card.Label, card.Score, card.Status)
		}
		b.WriteString("\n")
	}

	b.WriteString(result.Markdown)
	b.WriteString("\n")

	if len(result.Sources) > 0 {
		b.WriteString("\n## Sources\n\n")
		for _, src := range result.Sources {
			title := src.Title
			if title == "" {
				title = src.URL
			}
			fmt.Fprintf(&b, "- [%s](%s)\n", title, src.URL)
		}
	}

	return b.String()
}
