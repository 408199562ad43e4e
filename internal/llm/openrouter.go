package llm

import (
	"fmt"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterHeaders identify cmaster in OpenRouter's app rankings.
var openRouterHeaders = http.Header{
	"Http-Referer": {"https://github.com/abhisek/cmaster"},
	"X-Title":      {"cmaster"},
}

// OpenRouterProvider wraps OpenAIProvider with OpenRouter defaults. The
// OpenRouter API is OpenAI-compatible, so the same SDK client is used.
// Model IDs are vendor-prefixed ("google/gemini-2.5-flash") and passed
// through unchanged.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openrouter model is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	inner := newOpenAIProvider(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, openRouterHeaders)
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
