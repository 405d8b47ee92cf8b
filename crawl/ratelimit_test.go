package crawl_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ottawa-dropin/dropin"
	"github.com/ottawa-dropin/dropin/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ dropin.DomainLimiter = (*crawl.DomainLimiter)(nil)

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first page load is not delayed", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "ottawa.ca"))

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("list and facility pages on one host share a bucket", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "ottawa.ca"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "ottawa.ca"))

		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("another host has its own bucket", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "ottawa.ca"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "www.ottawa.ca"))

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("gives up when the context ends first", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "ottawa.ca"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "ottawa.ca"))
	})

	t.Run("concurrent waiters all get through", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(100)

		var wg sync.WaitGroup
		errs := make(chan error, 5)
		for range 5 {
			wg.Go(func() {
				errs <- limiter.Wait(context.Background(), "ottawa.ca")
			})
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
	})

	t.Run("zero rate turns pacing off", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0)

		start := time.Now()
		for range 10 {
			require.NoError(t, limiter.Wait(context.Background(), "ottawa.ca"))
		}

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("zero rate still honours cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, crawl.NewDomainLimiter(0).Wait(ctx, "ottawa.ca"), context.Canceled)
	})
}
