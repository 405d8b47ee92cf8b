package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ottawa-dropin/dropin"
)

// Ensure LoggingCacheStore implements dropin.CacheStore.
var _ dropin.CacheStore = (*LoggingCacheStore)(nil)

// LoggingCacheStore wraps a CacheStore with logging.
type LoggingCacheStore struct {
	next   dropin.CacheStore
	logger *slog.Logger
}

// NewLoggingCacheStore creates a new LoggingCacheStore.
func NewLoggingCacheStore(next dropin.CacheStore, logger *slog.Logger) *LoggingCacheStore {
	return &LoggingCacheStore{next: next, logger: logger}
}

// Load delegates to the wrapped store and logs the number of entries read.
func (s *LoggingCacheStore) Load(ctx context.Context) (entries map[string][]dropin.RawEntry, err error) {
	defer func(begin time.Time) {
		s.logger.Info("load table cache",
			"tables", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

// Save delegates to the wrapped store and logs the number of entries written.
func (s *LoggingCacheStore) Save(ctx context.Context, entries map[string][]dropin.RawEntry) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save table cache",
			"tables", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, entries)
}
