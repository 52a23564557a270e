package llm

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for tests.
type MockClient struct {
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // fail once more than this many requests were made (0 = never)
	FailFirst    int // fail the first N requests, then succeed (0 = never)
	FailErr      error
	ResponseText string

	requestCount atomic.Int64
}

// NewMockClient returns a mock with a canned empty-JSON answer.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: `{"patient_info": {}, "procedures": []}`,
	}
}

func (c *MockClient) Name() string { return MockClientName }

// Requests returns how many chat calls were made.
func (c *MockClient) Requests() int64 {
	return c.requestCount.Load()
}

// Chat returns the configured response or failure.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	count := c.requestCount.Add(1)

	fail := c.ShouldFail ||
		(c.FailAfter > 0 && int(count) > c.FailAfter) ||
		(c.FailFirst > 0 && int(count) <= c.FailFirst)
	if fail {
		err := c.FailErr
		if err == nil {
			err = fmt.Errorf("mock client configured to fail")
		}
		return &ChatResult{
			Provider:     MockClientName,
			RequestID:    req.RequestID,
			ErrorMessage: err.Error(),
		}, err
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &ChatResult{
		Content:   c.ResponseText,
		Provider:  MockClientName,
		ModelUsed: req.Model,
		RequestID: req.RequestID,
		Success:   true,
	}, nil
}
