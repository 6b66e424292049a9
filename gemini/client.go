package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/seo-optimizer/auditor/analyzer"
	"github.com/seo-optimizer/auditor/assistant"
)

// Default model names
const (
	DefaultModel     = "gemini-3-pro-preview"
	DefaultChatModel = "gemini-3-pro-preview"
)

// ErrNoAPIKey is returned by New when no credential is supplied
var ErrNoAPIKey = errors.New("gemini: no API key configured")

// Config selects the credential and the models used
type Config struct {
	APIKey    string
	Model     string
	ChatModel string
}

// Client talks to the Gemini API. It serves both report generation and chat.
type Client struct {
	client    *genai.Client
	model     string
	chatModel string
	logger    *zap.Logger
}

var (
	_ analyzer.Model      = (*Client)(nil)
	_ assistant.ChatModel = (*Client)(nil)
)

// New creates a Client for the Gemini API backend
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client:    client,
		model:     cfg.Model,
		chatModel: cfg.ChatModel,
		logger:    logger,
	}, nil
}

// GenerateStream streams one report. Grounding citations are attached to the
// chunk they arrived with.
func (c *Client) GenerateStream(ctx context.Context, req analyzer.GenerateRequest) iter.Seq2[analyzer.Chunk, error] {
	config := generateConfig(req)

	return func(yield func(analyzer.Chunk, error) bool) {
		c.logger.Debug("Starting report stream",
			zap.String("model", c.model),
			zap.Int("prompt_chars", len(req.Prompt)),
		)
		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, genai.Text(req.Prompt), config) {
			if err != nil {
				yield(analyzer.Chunk{}, err)
				return
			}
			if !yield(chunkFromResponse(resp), nil) {
				return
			}
		}
	}
}

// StartChat opens a conversation with the chat model
func (c *Client) StartChat(ctx context.Context, instruction string) (assistant.Conversation, error) {
	chat, err := c.client.Chats.Create(ctx, c.chatModel, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &conversation{chat: chat}, nil
}

type conversation struct {
	chat *genai.Chat
}

func (c *conversation) Send(ctx context.Context, message string) (string, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func generateConfig(req analyzer.GenerateRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.WebSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if req.ThinkingBudget > 0 {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](req.ThinkingBudget),
		}
	}
	return config
}

func chunkFromResponse(resp *genai.GenerateContentResponse) analyzer.Chunk {
	if resp == nil {
		return analyzer.Chunk{}
	}

	chunk := analyzer.Chunk{Text: resp.Text()}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return chunk
	}

	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return chunk
	}
	for _, g := range meta.GroundingChunks {
		if g == nil || g.Web == nil {
			continue
		}
		chunk.Citations = append(chunk.Citations, analyzer.GroundingSource{
			Title: g.Web.Title,
			URL:   g.Web.URI,
		})
	}
	return chunk
}
