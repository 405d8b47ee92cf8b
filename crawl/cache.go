package crawl

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/ottawa-dropin/dropin"
)

// TableCache maps table fingerprints to previously extracted raw entries.
//
// It keeps two tiers. The persisted tier is loaded once at the start of a run
// and is read-only afterwards. The output tier collects every entry produced
// or reused during the current run, and is the only tier written back by
// Persist. Entries of the persisted tier that are not used during a run are
// therefore dropped from the next persisted snapshot.
//
// TableCache is safe for concurrent use.
type TableCache struct {
	mu        sync.Mutex
	persisted map[string][]dropin.RawEntry
	output    map[string][]dropin.RawEntry
}

// NewTableCache returns an empty cache.
func NewTableCache() *TableCache {
	return &TableCache{
		persisted: make(map[string][]dropin.RawEntry),
		output:    make(map[string][]dropin.RawEntry),
	}
}

// Load replaces the persisted tier with the contents of store.
// On error the persisted tier is left empty and the error is returned
// for the caller to log.
func (c *TableCache) Load(ctx context.Context, store dropin.CacheStore) error {
	entries, err := store.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.persisted = make(map[string][]dropin.RawEntry, len(entries))
	if err != nil {
		return fmt.Errorf("loading table cache: %w", err)
	}
	maps.Copy(c.persisted, entries)
	return nil
}

// Lookup returns the entries cached for fingerprint.
// An output tier hit is returned as is. A persisted tier hit is first copied
// into the output tier so that the next Persist writes it forward.
func (c *TableCache) Lookup(fingerprint string) ([]dropin.RawEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entries, ok := c.output[fingerprint]; ok {
		return entries, true
	}
	if entries, ok := c.persisted[fingerprint]; ok {
		c.output[fingerprint] = entries
		return entries, true
	}
	return nil, false
}

// Record stores freshly extracted entries in the output tier.
// A fingerprint already present in the output tier is not overwritten.
func (c *TableCache) Record(fingerprint string, entries []dropin.RawEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.output[fingerprint]; ok {
		return
	}
	c.output[fingerprint] = entries
}

// Snapshot returns a copy of the output tier.
func (c *TableCache) Snapshot() map[string][]dropin.RawEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.output)
}

// Persist saves the output tier to store. Nothing is written when the output
// tier is empty; the returned bool reports whether a write happened.
func (c *TableCache) Persist(ctx context.Context, store dropin.CacheStore) (bool, error) {
	snapshot := c.Snapshot()
	if len(snapshot) == 0 {
		return false, nil
	}
	if err := store.Save(ctx, snapshot); err != nil {
		return false, fmt.Errorf("saving table cache: %w", err)
	}
	return true, nil
}
