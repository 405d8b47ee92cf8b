package crawl

import (
	"context"
	"net/url"
	"sync"

	"github.com/ottawa-dropin/dropin"
	"golang.org/x/time/rate"
)

var _ dropin.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out the scraper's page loads. List pages and facility
// pages share the city's host, so one bucket paces the whole crawl; the
// LLM endpoints are never paced here.
type DomainLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
}

// NewDomainLimiter allows pagesPerSecond page loads per host with no burst.
// Zero or less turns pacing off.
func NewDomainLimiter(pagesPerSecond float64) *DomainLimiter {
	return &DomainLimiter{
		buckets: make(map[string]*rate.Limiter),
		every:   rate.Limit(pagesPerSecond),
	}
}

// Wait returns once host may be loaded again, or with the context error.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.every <= 0 {
		return ctx.Err()
	}
	return d.bucket(host).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buckets[host]
	if !ok {
		b = rate.NewLimiter(d.every, 1)
		d.buckets[host] = b
	}
	return b
}

// waitURL waits on the limiter for the host of rawURL.
// A nil limiter or an unparseable URL does not wait.
func waitURL(ctx context.Context, limiter dropin.DomainLimiter, rawURL string) error {
	if limiter == nil {
		return ctx.Err()
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ctx.Err()
	}
	return limiter.Wait(ctx, u.Host)
}
