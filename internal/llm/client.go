// Package llm talks to an OpenAI compatible chat completion API.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/kfreiman/mockinterview/internal/retry"
)

const (
	DefaultModel           = "gpt-4o"
	DefaultEvaluationModel = "gpt-4o-mini"
	DefaultLanguage        = "English"
)

// ErrEmptyResponse is returned when the API answers without choices
var ErrEmptyResponse = errors.New("model returned no choices")

// Config holds the connection and model settings
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	EvaluationModel string
	// Language is the language generated text is written in
	Language string
	Retry    retry.Config
	Timeout  time.Duration
}

// ParseError reports a model response that is not the expected JSON
type ParseError struct {
	Model   string
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s response: %v", e.Model, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Client wraps the chat completion endpoint with retries and JSON decoding
type Client struct {
	client          *openai.Client
	model           string
	evaluationModel string
	language        string
	retry           retry.Config
	logger          *slog.Logger
}

// NewClient creates a client from cfg, filling unset models and retries
func NewClient(cfg Config) *Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		client:          openai.NewClientWithConfig(config),
		model:           cfg.Model,
		evaluationModel: cfg.EvaluationModel,
		language:        cfg.Language,
		retry:           cfg.Retry,
		logger:          slog.Default(),
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.evaluationModel == "" {
		c.evaluationModel = DefaultEvaluationModel
	}
	if c.language == "" {
		c.language = DefaultLanguage
	}
	if c.retry.MaxAttempts == 0 {
		c.retry = retry.Exponential(3, 500*time.Millisecond)
	}
	c.retry.Retryable = IsRetryable
	return c
}

// WithLogger sets the logger for the client
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// IsRetryable reports whether a failed completion may succeed when repeated:
// rate limits, server errors and transport failures.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 0 || retryableStatus(reqErr.HTTPStatusCode)
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) || errors.Is(err, ErrEmptyResponse) {
		return false
	}
	// transport failures surface as plain errors
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

type completion struct {
	model       string
	system      string
	user        string
	json        bool
	temperature float32
}

// complete runs one chat completion with retries and returns the content
func (c *Client) complete(ctx context.Context, req completion) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: req.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.system},
			{Role: openai.ChatMessageRoleUser, Content: req.user},
		},
		Temperature: req.temperature,
	}
	if req.json {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var content string
	err := retry.Do(ctx, c.retry, func(attempt int) error {
		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			c.logger.WarnContext(ctx, "chat completion failed",
				"error", err,
				"model", req.model,
				"attempt", attempt,
			)
			return err
		}
		if len(resp.Choices) == 0 {
			return ErrEmptyResponse
		}
		content = resp.Choices[0].Message.Content
		c.logger.DebugContext(ctx, "chat completion",
			"model", req.model,
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens,
		)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	return content, nil
}

// completeJSON runs a JSON mode completion and decodes it into out
func (c *Client) completeJSON(ctx context.Context, req completion, out any) error {
	req.json = true
	content, err := c.complete(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return &ParseError{Model: req.model, Content: content, Err: err}
	}
	return nil
}
