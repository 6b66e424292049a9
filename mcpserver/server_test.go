package mcpserver

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/auditor/analyzer"
	"github.com/seo-optimizer/auditor/assistant"
	"github.com/seo-optimizer/auditor/report"
)

type fakeModel struct {
	chunks []analyzer.Chunk
	err    error
}

func (f *fakeModel) GenerateStream(ctx context.Context, req analyzer.GenerateRequest) iter.Seq2[analyzer.Chunk, error] {
	return func(yield func(analyzer.Chunk, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.err != nil {
			yield(analyzer.Chunk{}, f.err)
		}
	}
}

type fakeChatModel struct {
	reply string
}

func (f *fakeChatModel) StartChat(ctx context.Context, instruction string) (assistant.Conversation, error) {
	return f, nil
}

func (f *fakeChatModel) Send(ctx context.Context, message string) (string, error) {
	return f.reply, nil
}

func newTestServer(t *testing.T, model analyzer.Model) *Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	session := assistant.NewSession(&fakeChatModel{reply: "Add FAQ schema."}, logger)
	s := New(analyzer.New(model, analyzer.WithLogger(logger), analyzer.WithReportSink(session)), session, "test", logger)
	s.now = func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) }
	return s
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestListTools(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, []string{ToolLlmsTxt, ToolAudit, ToolChat, ToolSections}, s.ListTools())
}

func TestHandleAudit(t *testing.T) {
	model := &fakeModel{chunks: []analyzer.Chunk{
		{Text: "## 1. Technical SEO\nAll good.\n", Citations: []analyzer.GroundingSource{{Title: "web.dev", URL: "https://web.dev"}}},
		{Text: `<JSON_METRICS>{"technical":{"score":85,"status":"Good"},"onPage":{"score":60,"status":"Fair"},"content":{"score":40,"status":"Poor"},"keywords":{"score":92,"status":"Excellent"}}</JSON_METRICS>`},
	}}
	s := newTestServer(t, model)

	result, err := s.handleAudit(context.Background(), call(map[string]any{"url": "shop.example"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := text(t, result)
	assert.Contains(t, out, "# SEO audit: https://shop.example")
	assert.Contains(t, out, "| Technical SEO | 85 | Good |")
	assert.Contains(t, out, "All good.")
	assert.Contains(t, out, "- [web.dev](https://web.dev)")
	assert.NotContains(t, out, analyzer.MetricsOpenTag)

	assert.Contains(t, s.chat.ReportContext(), "All good.")
}

func TestHandleAudit_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleAudit(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleAudit(context.Background(), call(map[string]any{"url": "a.test"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, analyzer.ErrMissingAPIKey.Error(), text(t, result))

	s = newTestServer(t, &fakeModel{err: errors.New("boom")})
	result, err = s.handleAudit(context.Background(), call(map[string]any{"url": "a.test"}))
	require.NoError(t, err)
	assert.Equal(t, analyzer.ErrGenerationFailed.Error(), text(t, result))
}

func TestHandleChat(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleChat(context.Background(), call(map[string]any{"message": "What next?"}))
	require.NoError(t, err)
	assert.Equal(t, "Add FAQ schema.", text(t, result))

	result, err = s.handleChat(context.Background(), call(map[string]any{"message": " "}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleSections(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleSections(context.Background(), call(map[string]any{"markdown": "# T\n## A\nx\n## B\ny"}))
	require.NoError(t, err)

	var sections []report.Section
	require.NoError(t, yaml.Unmarshal([]byte(text(t, result)), &sections))
	require.Len(t, sections, 3)
	assert.Equal(t, "A", sections[1].Title)
}

func TestHandleLlmsTxt(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("yaml form", func(t *testing.T) {
		result, err := s.handleLlmsTxt(context.Background(), call(map[string]any{
			"form": "companyName: Acme\nwebsiteUrl: acme.io\n",
		}))
		require.NoError(t, err)
		out := text(t, result)
		assert.Contains(t, out, "# llms.txt - Acme\n# Last Updated: 2025-01-02")
		assert.Contains(t, out, "Website: acme.io")
	})

	t.Run("json form over template", func(t *testing.T) {
		result, err := s.handleLlmsTxt(context.Background(), call(map[string]any{
			"template": "saas",
			"form":     `{"companyName":"Other Co"}`,
		}))
		require.NoError(t, err)
		assert.Contains(t, text(t, result), "# llms.txt - Other Co")
	})

	t.Run("unknown template", func(t *testing.T) {
		result, err := s.handleLlmsTxt(context.Background(), call(map[string]any{"template": "nope"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}
