package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/openchat-labs/chat-backend/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// Turn is one role-tagged message sent to the completion API. Only role
// and content cross the wire; timestamps and ids stay local.
type Turn struct {
	Role    string
	Content string
}

var (
	// ErrNotConfigured means the API base URL or key is missing. This is
	// only detected at call time, not at startup.
	ErrNotConfigured = errors.New("completion API not configured")

	// ErrMalformedResponse means the provider answered 200 but without
	// the expected first-choice message content.
	ErrMalformedResponse = errors.New("unexpected completion API response shape")

	// ErrTimeout means the provider did not answer within the deadline.
	ErrTimeout = errors.New("completion API timeout")
)

// UpstreamError carries the provider's HTTP status and error message for
// classification at the handler boundary.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion API returned status %d: %s", e.StatusCode, e.Message)
}

// Completer produces assistant text for an ordered list of turns.
type Completer interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

// Client is the outbound completion gateway. It sends a fixed model,
// a completion-token cap and no streaming, and translates provider
// failures into the error types above. Nothing is retried.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	enabled   bool
}

// NewClient creates a completion client from configuration. A client
// with missing credentials is still constructed; calls on it fail with
// ErrNotConfigured.
func NewClient(cfg config.LLMConfig) *Client {
	c := &Client{
		model:     cfg.Model,
		maxTokens: cfg.MaxCompletionTokens,
		enabled:   cfg.BaseURL != "" && cfg.APIKey != "",
	}
	if !c.enabled {
		return c
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	c.api = openai.NewClientWithConfig(apiCfg)
	return c
}

// Complete sends the conversation turns and returns the assistant text
func (c *Client) Complete(ctx context.Context, turns []Turn) (string, error) {
	if !c.enabled {
		return "", ErrNotConfigured
	}

	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		messages[i] = openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Content,
		}
	}

	log.Debug().
		Str("model", c.model).
		Int("message_count", len(messages)).
		Msg("Sending completion request")

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               c.model,
		Messages:            messages,
		MaxCompletionTokens: c.maxTokens,
		Stream:              false,
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Warn().Msg("Completion response missing first choice content")
		return "", ErrMalformedResponse
	}

	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		log.Error().
			Int("status", apiErr.HTTPStatusCode).
			Str("upstream_error", apiErr.Message).
			Msg("Completion request rejected")
		return &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	if isTimeout(err) {
		log.Error().Err(err).Msg("Completion request timed out")
		return ErrTimeout
	}

	log.Error().Err(err).Msg("Completion request failed")
	return fmt.Errorf("completion request failed: %w", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
