// Package llm wraps the language-model side of the extraction pipeline:
// a small client interface, an OpenAI implementation, a shared rate
// limiter, and schema validation of model output.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"
)

// LLMClient is the chat interface the extraction strategies depend on.
type LLMClient interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)
	Name() string
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to a language model.
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Timeout     time.Duration
	RequestID   string `json:"-"`
}

// ChatResult is the response from a model call.
type ChatResult struct {
	Content    string          `json:"content"`
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"`

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`
	RequestID string `json:"request_id"`

	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// transientSignatures are the error shapes worth retrying: the call may
// succeed on a later attempt. Anything else fails the section immediately.
var transientSignatures = []string{
	"timeout",
	"timed out",
	"rate limit",
	"rate_limit",
	"too many requests",
	"429",
	"connection refused",
	"connection reset",
	"no such host",
	"quota",
	"temporarily unavailable",
	"502",
	"503",
}

// IsTransient reports whether an error matches the curated set of
// retryable signatures (timeout, rate-limit, connection, quota).
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
