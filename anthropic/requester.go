// Package anthropic implements dropin.Requester using Anthropic's Messages API.
package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ottawa-dropin/dropin"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-haiku-4-5"

// maxTokens bounds the reply; a large schedule table yields a few hundred entries.
const maxTokens = 8192

// Ensure Requester implements dropin.Requester at compile time.
var _ dropin.Requester = (*Requester)(nil)

// Requester sends prompts to an Anthropic model.
type Requester struct {
	client anthropic.Client
	model  string
}

// NewRequester creates a Requester authenticating with apiKey.
// An empty model uses DefaultModel. Extra options are passed to the client.
func NewRequester(apiKey, model string, opts ...option.RequestOption) *Requester {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Requester{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Request sends prompt as a single user message and returns the first text block.
func (r *Requester) Request(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", dropin.Errorf(dropin.EINVALID, "prompt required")
	}

	message, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", dropin.Errorf(dropin.EINTERNAL, "no text content in Anthropic response")
}
