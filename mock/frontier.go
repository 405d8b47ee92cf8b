package mock

import (
	"context"

	"github.com/ottawa-dropin/dropin"
)

var _ dropin.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of dropin.URLFrontier.
type URLFrontier struct {
	PushFn func(url string) bool
	PopFn  func() (string, bool)
	LenFn  func() int
}

func (f *URLFrontier) Push(url string) bool {
	return f.PushFn(url)
}

func (f *URLFrontier) Pop() (string, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

var _ dropin.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of dropin.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
