package dropin

import "context"

// CacheStore persists table cache entries between runs.
// Keys are table fingerprints; values are the raw entries extracted for the table.
type CacheStore interface {
	// Load returns all persisted entries. A store that does not exist yet
	// returns an empty map and no error.
	Load(ctx context.Context) (map[string][]RawEntry, error)

	// Save replaces the persisted entries with entries.
	Save(ctx context.Context, entries map[string][]RawEntry) error
}
