package mock

import (
	"context"

	"github.com/ottawa-dropin/dropin"
)

// Compile-time interface verification.
var (
	_ dropin.CacheStore    = (*CacheStore)(nil)
	_ dropin.ScheduleStore = (*ScheduleStore)(nil)
)

// CacheStore is a mock implementation of dropin.CacheStore.
type CacheStore struct {
	LoadFn func(ctx context.Context) (map[string][]dropin.RawEntry, error)
	SaveFn func(ctx context.Context, entries map[string][]dropin.RawEntry) error
}

func (s *CacheStore) Load(ctx context.Context) (map[string][]dropin.RawEntry, error) {
	return s.LoadFn(ctx)
}

func (s *CacheStore) Save(ctx context.Context, entries map[string][]dropin.RawEntry) error {
	return s.SaveFn(ctx, entries)
}

// ScheduleStore is a mock implementation of dropin.ScheduleStore.
type ScheduleStore struct {
	SaveSchedulesFn func(ctx context.Context, schedules []*dropin.Schedule) error
	SaveInvalidFn   func(ctx context.Context, entries []dropin.InvalidEntry) error
	LoadSchedulesFn func(ctx context.Context) ([]*dropin.Schedule, error)
}

func (s *ScheduleStore) SaveSchedules(ctx context.Context, schedules []*dropin.Schedule) error {
	return s.SaveSchedulesFn(ctx, schedules)
}

func (s *ScheduleStore) SaveInvalid(ctx context.Context, entries []dropin.InvalidEntry) error {
	return s.SaveInvalidFn(ctx, entries)
}

func (s *ScheduleStore) LoadSchedules(ctx context.Context) ([]*dropin.Schedule, error) {
	return s.LoadSchedulesFn(ctx)
}
