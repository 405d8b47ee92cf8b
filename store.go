package dropin

import "context"

// ScheduleStore persists the outcome of a scrape run and reads it back for upload.
type ScheduleStore interface {
	// SaveSchedules writes validated schedules.
	SaveSchedules(ctx context.Context, schedules []*Schedule) error

	// SaveInvalid writes entries that failed validation.
	SaveInvalid(ctx context.Context, entries []InvalidEntry) error

	// LoadSchedules reads previously saved schedules.
	// Returns ENOTFOUND if nothing has been saved.
	LoadSchedules(ctx context.Context) ([]*Schedule, error)
}
