package llm

import (
	"context"
	"fmt"

	"clementus360/simpliday/config"
)

type Model string

const (
	OpenAI Model = "openai"
	Gemini Model = "gemini"
	Proxy  Model = "proxy"
)

// NewProvider builds the provider selected by LLM_PROVIDER. The returned
// close function releases SDK resources and is always safe to call.
func NewProvider(ctx context.Context, cfg config.Config) (Provider, func() error, error) {
	noop := func() error { return nil }

	switch Model(cfg.LLMProvider) {
	case OpenAI:
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), noop, nil
	case Gemini:
		p, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	case Proxy:
		return NewProxyProvider(cfg.ProxyURL, cfg.ProxyLegacy, cfg.LLMTimeout), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported model: %s (supported: %s, %s, %s)", cfg.LLMProvider, OpenAI, Gemini, Proxy)
	}
}
