// Package gemini implements dropin.Requester using Google Gemini.
package gemini

import (
	"context"

	"github.com/ottawa-dropin/dropin"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Requester implements dropin.Requester at compile time.
var _ dropin.Requester = (*Requester)(nil)

// Requester sends prompts to a Gemini model.
type Requester struct {
	client *genai.Client
	model  string
}

// NewRequester creates a new Requester. An empty model uses DefaultModel.
func NewRequester(client *genai.Client, model string) *Requester {
	if model == "" {
		model = DefaultModel
	}
	return &Requester{client: client, model: model}
}

// NewClient creates a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Request sends prompt as a single user turn and returns the reply text.
func (r *Requester) Request(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", dropin.Errorf(dropin.EINVALID, "prompt required")
	}

	result, err := r.client.Models.GenerateContent(ctx, r.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", dropin.Errorf(dropin.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for extraction calls.
// A low temperature keeps repeated extractions of a table stable.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}
