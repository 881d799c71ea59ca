// Package llm wraps an OpenAI-compatible chat-completion endpoint as the
// moderation judge. Any provider speaking the OpenAI protocol works by
// pointing BaseURL at it.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultModel = "gpt-4o-mini"

	// maxTokens bounds the judge reply; the JSON decision object is short.
	maxTokens = 150

	// temperature is low but nonzero: stable answers without completely
	// deterministic boilerplate.
	temperature = 0.1

	defaultTimeout = 15 * time.Second
)

// ErrorKind classifies a failed judge call for logging. The pipeline itself
// treats every kind the same way.
type ErrorKind string

const (
	ErrorRateLimit  ErrorKind = "rate_limit"
	ErrorConnection ErrorKind = "connection"
	ErrorTimeout    ErrorKind = "timeout"
	ErrorService    ErrorKind = "service"
)

// Client is the judgment-service client
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// Option configures the client
type Option func(*Client)

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a judge client. An empty baseURL targets api.openai.com;
// an empty model selects the default.
func NewClient(apiKey, baseURL, model string, opts ...Option) *Client {
	if model == "" {
		model = defaultModel
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	c := &Client{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends one system prompt plus user message and returns the raw
// reply text. Exactly one request is made; there are no retries.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ClassifyError maps a Complete error onto a single failure kind for logging.
func ClassifyError(err error) ErrorKind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return ErrorRateLimit
		}
		return ErrorService
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return ErrorTimeout
		}
		return ErrorConnection
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorTimeout
		}
		return ErrorConnection
	}

	return ErrorService
}
