package main

import (
	"context"
	"fmt"

	"github.com/ottawa-dropin/dropin"
	"github.com/ottawa-dropin/dropin/anthropic"
	"github.com/ottawa-dropin/dropin/gemini"
	"github.com/ottawa-dropin/dropin/openai"
)

// LLM provider names accepted by --llm-provider.
const (
	ProviderDeepSeek  = "deepseek"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Provider is a configured LLM backend.
type Provider struct {
	Name   string
	APIKey string
}

// providers returns the backends in selection precedence.
func (c *ScrapeCmd) providers() []Provider {
	return []Provider{
		{Name: ProviderDeepSeek, APIKey: c.DeepSeekAPIKey},
		{Name: ProviderOpenAI, APIKey: c.OpenAIAPIKey},
		{Name: ProviderGemini, APIKey: c.GeminiAPIKey},
		{Name: ProviderAnthropic, APIKey: c.AnthropicAPIKey},
	}
}

// Provider resolves the LLM backend. With --llm-provider=auto the first
// provider with a key wins. Returns ECONFIG when no usable key is set.
func (c *ScrapeCmd) Provider() (Provider, error) {
	requested := c.LLMProvider
	if requested == "" {
		requested = "auto"
	}

	for _, p := range c.providers() {
		if requested != "auto" && requested != p.Name {
			continue
		}
		if p.APIKey != "" {
			return p, nil
		}
		if requested == p.Name {
			return Provider{}, dropin.Errorf(dropin.ECONFIG, "no API key set for LLM provider %q", p.Name)
		}
	}
	if requested != "auto" {
		return Provider{}, dropin.Errorf(dropin.ECONFIG, "unknown LLM provider %q", requested)
	}
	return Provider{}, dropin.Errorf(dropin.ECONFIG,
		"no LLM API key found. Set one of DEEPSEEK_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY or ANTHROPIC_API_KEY")
}

// newRequester builds the requester for p.
func newRequester(ctx context.Context, p Provider, c *ScrapeCmd) (dropin.Requester, error) {
	switch p.Name {
	case ProviderDeepSeek:
		return openai.NewDeepSeekRequester(openai.Config{APIKey: p.APIKey, BaseURL: c.LLMBaseURL, Model: c.LLMModel, Timeout: c.LLMTimeout}), nil
	case ProviderOpenAI:
		return openai.NewRequester(openai.Config{APIKey: p.APIKey, BaseURL: c.LLMBaseURL, Model: c.LLMModel, Timeout: c.LLMTimeout}), nil
	case ProviderGemini:
		client, err := gemini.NewClient(ctx, p.APIKey)
		if err != nil {
			return nil, dropin.Errorf(dropin.ECONFIG, "failed to connect to Gemini API: %v", err)
		}
		return gemini.NewRequester(client, c.LLMModel), nil
	case ProviderAnthropic:
		return anthropic.NewRequester(p.APIKey, c.LLMModel), nil
	}
	return nil, fmt.Errorf("unsupported LLM provider %q", p.Name)
}
