// Package openai implements dropin.Requester against OpenAI-compatible chat
// completion APIs. DeepSeek serves the same API under its own base URL.
package openai

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ottawa-dropin/dropin"
)

// Endpoints and default models.
const (
	OpenAIBaseURL   = "https://api.openai.com/v1"
	OpenAIModel     = "gpt-5-nano"
	DeepSeekBaseURL = "https://api.deepseek.com"
	DeepSeekModel   = "deepseek-chat"
)

// DefaultTimeout bounds one completion request.
const DefaultTimeout = 5 * time.Minute

// Ensure Requester implements dropin.Requester at compile time.
var _ dropin.Requester = (*Requester)(nil)

// Requester sends prompts to a chat completions endpoint.
type Requester struct {
	client *resty.Client
	model  string
}

// Config configures a Requester.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewRequester creates a Requester. Empty BaseURL and Model fall back to
// OpenAI's endpoint and OpenAIModel.
func NewRequester(cfg Config) *Requester {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = OpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetAuthToken(cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(cfg.Timeout)

	return &Requester{client: client, model: cfg.Model}
}

// NewDeepSeekRequester creates a Requester for DeepSeek's chat API. Empty
// BaseURL and Model fall back to DeepSeekBaseURL and DeepSeekModel.
func NewDeepSeekRequester(cfg Config) *Requester {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DeepSeekBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DeepSeekModel
	}
	return NewRequester(cfg)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Request sends prompt as a single user message and returns the content of
// the first choice.
func (r *Requester) Request(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", dropin.Errorf(dropin.EINVALID, "prompt required")
	}

	var resp chatResponse
	res, err := r.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:    r.model,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}).
		SetResult(&resp).
		SetError(&resp).
		Post("/chat/completions")
	if err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", dropin.Errorf(dropin.EINTERNAL, "chat completion failed (HTTP %d): %s", res.StatusCode(), resp.Error.Message)
	}
	if res.IsError() {
		return "", dropin.Errorf(dropin.EINTERNAL, "chat completion failed (HTTP %d): %s", res.StatusCode(), res.String())
	}
	if len(resp.Choices) == 0 {
		return "", dropin.Errorf(dropin.EINTERNAL, "no choices in chat completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
