// Package bloom provides probabilistic set membership for deduplicating
// facility URLs discovered across list pages.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a Bloom filter keyed by strings.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected keys at the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// TestAndAdd reports whether key might already be present, then adds it.
// False positives are possible; false negatives are not.
func (f *Filter) TestAndAdd(key string) bool {
	return f.f.TestAndAddString(key)
}

// Test reports whether key might be present.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}
