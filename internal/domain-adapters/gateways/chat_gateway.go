package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/ochairo/netport/internal/domain/interfaces/gateways"
)

// Defaults of the original xAI deployment
const (
	DefaultChatBaseURL     = "https://api.x.ai/v1"
	DefaultChatModel       = "grok-beta"
	DefaultChatMaxTokens   = 500
	DefaultChatTemperature = 0.7
)

// ChatConfig configures an OpenAI-compatible chat completions endpoint
type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	RateLimit   float64 // Requests per second, 0 = unlimited
	Timeout     time.Duration
}

// chatGateway implements text generation over /chat/completions
type chatGateway struct {
	apiURL     string
	config     ChatConfig
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewChatGateway creates a new chat completions gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChatGateway(config ChatConfig) *chatGateway {
	if config.BaseURL == "" {
		config.BaseURL = DefaultChatBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultChatModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultChatMaxTokens
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &chatGateway{
		apiURL:  strings.TrimRight(config.BaseURL, "/") + "/chat/completions",
		config:  config,
		limiter: limiter,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Generate sends one system+user exchange and returns the first choice
func (g *chatGateway) Generate(ctx context.Context, prompt gateways.Prompt) (string, error) {
	if g.config.APIKey == "" {
		return "", errors.WithHint(errors.New("chat API key is not configured"), "set XAI_API_KEY or suggest.api_key")
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", errors.Wrap(err, "rate limiter")
		}
	}

	payload := ChatCompletionRequest{
		Model: g.config.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "chat API request failed")
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Newf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", errors.Wrap(err, "failed to parse response")
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Chat completions request/response types

// ChatCompletionRequest is the body of a chat completions call
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// ChatMessage is one role/content pair
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse carries the generated choices
type ChatCompletionResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice is one generated alternative
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}
