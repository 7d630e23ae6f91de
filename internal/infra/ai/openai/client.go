package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bryanwahyu/aiact-classifier/internal/domain/ai"
	"github.com/bryanwahyu/aiact-classifier/internal/infra/ai/prompt"
)

const (
	maxTokens    = 2048
	DefaultModel = "gpt-5-nano"
)

type Client struct {
	*openai.Client
	Model string
	log   *zap.Logger
}

func NewClient(apiKey, model string, log *zap.Logger) *Client {
	return NewClientWithConfig(openai.DefaultConfig(apiKey), model, log)
}

// NewClientWithConfig allows a custom base URL, e.g. an OpenAI-compatible
// gateway or a test server.
func NewClientWithConfig(cfg openai.ClientConfig, model string, log *zap.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model, log: log}
}

func (c *Client) Provider() string { return "openai" }

// Assess requests a JSON object answer.
func (c *Client) Assess(ctx context.Context, userPrompt string) (json.RawMessage, error) {
	req := c.request(prompt.AssessorSystem(), userPrompt)
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	text, err := c.complete(ctx, "assess", req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

// Generate requests free text.
func (c *Client) Generate(ctx context.Context, userPrompt string) (string, error) {
	return c.complete(ctx, "generate", c.request(prompt.WriterSystem(), userPrompt))
}

func (c *Client) request(system, user string) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if reasoningModel(c.Model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
	return req
}

func reasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func (c *Client) complete(ctx context.Context, op string, req openai.ChatCompletionRequest) (string, error) {
	start := time.Now()
	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		if quotaError(err) {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	c.log.Debug("openai response",
		zap.String("op", op),
		zap.String("model", req.Model),
		zap.Int("prompt_len", len(req.Messages[len(req.Messages)-1].Content)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("elapsed", time.Since(start)))

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ai.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func quotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
