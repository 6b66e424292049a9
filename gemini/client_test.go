package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/seo-optimizer/auditor/analyzer"
)

func TestNew_RequiresKey(t *testing.T) {
	c, err := New(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.Nil(t, c)
}

func TestGenerateConfig(t *testing.T) {
	config := generateConfig(analyzer.GenerateRequest{
		SystemInstruction: "be thorough",
		Prompt:            "audit example.com",
		WebSearch:         true,
		ThinkingBudget:    4096,
	})

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Equal(t, "be thorough", config.SystemInstruction.Parts[0].Text)

	require.Len(t, config.Tools, 1)
	assert.NotNil(t, config.Tools[0].GoogleSearch)

	require.NotNil(t, config.ThinkingConfig)
	assert.Equal(t, int32(4096), *config.ThinkingConfig.ThinkingBudget)

	bare := generateConfig(analyzer.GenerateRequest{Prompt: "x"})
	assert.Nil(t, bare.SystemInstruction)
	assert.Empty(t, bare.Tools)
	assert.Nil(t, bare.ThinkingConfig)
}

func TestChunkFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText("## 1. Page Summary\n", genai.RoleModel),
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{Title: "Example", URI: "https://example.com"}},
					{},
					{Web: &genai.GroundingChunkWeb{Title: "Rival", URI: "https://rival.test"}},
				},
			},
		}},
	}

	chunk := chunkFromResponse(resp)
	assert.Equal(t, "## 1. Page Summary\n", chunk.Text)
	assert.Equal(t, []analyzer.GroundingSource{
		{Title: "Example", URL: "https://example.com"},
		{Title: "Rival", URL: "https://rival.test"},
	}, chunk.Citations)

	assert.Equal(t, analyzer.Chunk{}, chunkFromResponse(nil))
}
