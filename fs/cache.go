package fs

import (
	"context"

	"github.com/ottawa-dropin/dropin"
)

// Ensure CacheStore implements dropin.CacheStore at compile time.
var _ dropin.CacheStore = (*CacheStore)(nil)

// CacheStore keeps the table cache in a single JSON object file mapping
// fingerprints to raw entries.
type CacheStore struct {
	path string
}

// NewCacheStore creates a CacheStore backed by the file at path.
func NewCacheStore(path string) *CacheStore {
	return &CacheStore{path: path}
}

// Load reads the cache file. A missing file is an empty cache.
func (s *CacheStore) Load(ctx context.Context) (map[string][]dropin.RawEntry, error) {
	entries := make(map[string][]dropin.RawEntry)
	if err := readJSON(s.path, &entries); err != nil {
		if dropin.ErrorCode(err) == dropin.ENOTFOUND {
			return map[string][]dropin.RawEntry{}, nil
		}
		return nil, err
	}
	return entries, nil
}

// Save replaces the cache file with entries.
func (s *CacheStore) Save(ctx context.Context, entries map[string][]dropin.RawEntry) error {
	return writeJSON(s.path, entries)
}
