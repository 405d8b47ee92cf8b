package dropin

import "context"

// Requester sends a single prompt to a language model and returns the raw
// text of its reply. Each LLM provider is one implementation; the provider is
// chosen once at startup.
type Requester interface {
	Request(ctx context.Context, prompt string) (string, error)
}
