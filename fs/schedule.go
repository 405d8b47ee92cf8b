package fs

import (
	"context"

	"github.com/ottawa-dropin/dropin"
)

// Ensure ScheduleStore implements dropin.ScheduleStore at compile time.
var _ dropin.ScheduleStore = (*ScheduleStore)(nil)

// ScheduleStore writes valid schedules and invalid entries to two JSON array
// files.
type ScheduleStore struct {
	schedulesPath string
	invalidPath   string
}

// NewScheduleStore creates a ScheduleStore writing valid schedules to
// schedulesPath and rejected entries to invalidPath.
func NewScheduleStore(schedulesPath, invalidPath string) *ScheduleStore {
	return &ScheduleStore{schedulesPath: schedulesPath, invalidPath: invalidPath}
}

// SaveSchedules replaces the schedules file.
func (s *ScheduleStore) SaveSchedules(ctx context.Context, schedules []*dropin.Schedule) error {
	if schedules == nil {
		schedules = []*dropin.Schedule{}
	}
	return writeJSON(s.schedulesPath, schedules)
}

// SaveInvalid replaces the invalid entries file. Each entry carries its
// facility next to the fields the model returned.
func (s *ScheduleStore) SaveInvalid(ctx context.Context, entries []dropin.InvalidEntry) error {
	if entries == nil {
		entries = []dropin.InvalidEntry{}
	}
	return writeJSON(s.invalidPath, entries)
}

// LoadSchedules reads the schedules file.
// Returns ENOTFOUND if the file does not exist.
func (s *ScheduleStore) LoadSchedules(ctx context.Context) ([]*dropin.Schedule, error) {
	var schedules []*dropin.Schedule
	if err := readJSON(s.schedulesPath, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}
