package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ottawa-dropin/dropin"
)

// Ensure CacheStore implements dropin.CacheStore at compile time.
var _ dropin.CacheStore = (*CacheStore)(nil)

// CacheStore keeps the table cache with one row per fingerprint.
type CacheStore struct {
	db *DB
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db}
}

// Load returns every cached table.
func (s *CacheStore) Load(ctx context.Context) (map[string][]dropin.RawEntry, error) {
	rows, err := s.db.db.QueryContext(ctx, "SELECT fingerprint, entries FROM table_cache")
	if err != nil {
		return nil, fmt.Errorf("query table cache: %w", err)
	}
	defer rows.Close()

	cache := make(map[string][]dropin.RawEntry)
	for rows.Next() {
		var fingerprint, raw string
		if err := rows.Scan(&fingerprint, &raw); err != nil {
			return nil, fmt.Errorf("scan table cache: %w", err)
		}
		var entries []dropin.RawEntry
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			return nil, dropin.Errorf(dropin.EINVALID, "cached entries for %s are not valid JSON: %v", fingerprint, err)
		}
		cache[fingerprint] = entries
	}
	return cache, rows.Err()
}

// Save replaces the cached tables with entries in a single transaction.
func (s *CacheStore) Save(ctx context.Context, entries map[string][]dropin.RawEntry) error {
	savedAt := s.db.now()
	return s.db.replace(ctx, "table_cache", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO table_cache (fingerprint, entries, saved_at) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for fingerprint, list := range entries {
			if list == nil {
				list = []dropin.RawEntry{}
			}
			raw, err := json.Marshal(list)
			if err != nil {
				return fmt.Errorf("encode entries for %s: %w", fingerprint, err)
			}
			if _, err := stmt.ExecContext(ctx, fingerprint, string(raw), savedAt); err != nil {
				return fmt.Errorf("insert %s: %w", fingerprint, err)
			}
		}
		return nil
	})
}
