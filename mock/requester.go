package mock

import (
	"context"

	"github.com/ottawa-dropin/dropin"
)

var _ dropin.Requester = (*Requester)(nil)

// Requester is a mock implementation of dropin.Requester.
type Requester struct {
	RequestFn func(ctx context.Context, prompt string) (string, error)
}

func (r *Requester) Request(ctx context.Context, prompt string) (string, error) {
	return r.RequestFn(ctx, prompt)
}
