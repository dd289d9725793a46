package gateways

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ochairo/netport/internal/domain/interfaces/gateways"
)

// DefaultGeminiModel is used when the configured model is a chat model name
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini text-generation gateway
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string // Optional endpoint override
	MaxTokens   int
	Temperature float64
	RateLimit   float64
	HTTPClient  *http.Client
}

// geminiGateway implements text generation through google.golang.org/genai
type geminiGateway struct {
	client  *genai.Client
	config  GeminiConfig
	limiter *rate.Limiter
}

// NewGeminiGateway creates a Gemini API gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewGeminiGateway(ctx context.Context, config GeminiConfig) (*geminiGateway, error) {
	if config.APIKey == "" {
		return nil, errors.WithHint(errors.New("gemini API key is not configured"), "set GEMINI_API_KEY or suggest.gemini_api_key")
	}
	if config.Model == "" || strings.HasPrefix(config.Model, "grok") {
		config.Model = DefaultGeminiModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultChatMaxTokens
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: config.HTTPClient,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GenAI client")
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &geminiGateway{client: client, config: config, limiter: limiter}, nil
}

// Generate sends the prompt with the system role as system instruction
func (g *geminiGateway) Generate(ctx context.Context, prompt gateways.Prompt) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", errors.Wrap(err, "rate limiter")
		}
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.config.Temperature)),
		MaxOutputTokens: int32(g.config.MaxTokens), //nolint:gosec // G115: bounded by configuration
	}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, contents, config)
	if err != nil {
		return "", errors.Wrap(err, "gemini request failed")
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("no candidates in response")
	}
	return text, nil
}
