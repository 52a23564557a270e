package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	openAIDefaultModel   = "gpt-4o-mini"
	openAIDefaultTimeout = 120 * time.Second
)

// OpenAIConfig configures the OpenAI-backed client.
type OpenAIConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	RateLimit int // requests per minute across the worker pool
	Timeout   time.Duration
	Logger    *slog.Logger
}

// OpenAIClient implements LLMClient on the OpenAI chat completions API.
type OpenAIClient struct {
	client    openai.Client
	model     string
	timeout   time.Duration
	rateLimit *RateLimiter
	logger    *slog.Logger
}

// NewOpenAIClient builds a client. The rate limiter is owned by the client
// and shared by every caller of Chat.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key required")
	}
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = openAIDefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		timeout:   cfg.Timeout,
		rateLimit: NewRateLimiter(cfg.RateLimit),
		logger:    cfg.Logger,
	}, nil
}

func (c *OpenAIClient) Name() string { return "openai" }

// Chat sends a completion request, honoring the shared rate limiter.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	if err := c.rateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, params)
	elapsed := time.Since(start)
	if err != nil {
		if strings.Contains(err.Error(), "429") {
			c.rateLimit.Record429()
		}
		c.logger.Warn("chat completion failed",
			"model", model,
			"request_id", req.RequestID,
			"elapsed", elapsed,
			"error", err,
		)
		return &ChatResult{
			Provider:      c.Name(),
			ModelUsed:     model,
			RequestID:     req.RequestID,
			ExecutionTime: elapsed,
			ErrorMessage:  err.Error(),
		}, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty choices")
	}

	result := &ChatResult{
		Content:          completion.Choices[0].Message.Content,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
		ExecutionTime:    elapsed,
		Provider:         c.Name(),
		ModelUsed:        model,
		RequestID:        req.RequestID,
		Success:          true,
	}
	c.logger.Debug("chat completion",
		"model", model,
		"request_id", req.RequestID,
		"tokens", result.TotalTokens,
		"elapsed", elapsed,
	)
	return result, nil
}
