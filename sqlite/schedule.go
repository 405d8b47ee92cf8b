package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ottawa-dropin/dropin"
)

// Ensure ScheduleStore implements dropin.ScheduleStore at compile time.
var _ dropin.ScheduleStore = (*ScheduleStore)(nil)

// ScheduleStore keeps the latest scrape output. Each save replaces the
// previous run's rows.
type ScheduleStore struct {
	db *DB
}

// NewScheduleStore creates a new ScheduleStore.
func NewScheduleStore(db *DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// SaveSchedules replaces the stored schedules.
func (s *ScheduleStore) SaveSchedules(ctx context.Context, schedules []*dropin.Schedule) error {
	savedAt := s.db.now()
	return s.db.replace(ctx, "schedules", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO schedules (facility, activity, start_time, end_time, period_start_date, period_end_date, day_of_week, saved_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, sch := range schedules {
			if _, err := stmt.ExecContext(ctx,
				sch.Facility,
				sch.Activity,
				sch.StartTime,
				sch.EndTime,
				nullString(sch.PeriodStartDate),
				nullString(sch.PeriodEndDate),
				sch.DayOfWeek,
				savedAt,
			); err != nil {
				return fmt.Errorf("insert schedule: %w", err)
			}
		}
		return nil
	})
}

// SaveInvalid replaces the stored invalid entries.
func (s *ScheduleStore) SaveInvalid(ctx context.Context, entries []dropin.InvalidEntry) error {
	savedAt := s.db.now()
	return s.db.replace(ctx, "invalid_entries", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO invalid_entries (facility, entry, saved_at) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			raw, err := json.Marshal(e.Entry)
			if err != nil {
				return fmt.Errorf("encode invalid entry: %w", err)
			}
			if _, err := stmt.ExecContext(ctx, e.Facility, string(raw), savedAt); err != nil {
				return fmt.Errorf("insert invalid entry: %w", err)
			}
		}
		return nil
	})
}

// LoadSchedules returns the stored schedules in insertion order.
// Returns ENOTFOUND if no schedules are stored.
func (s *ScheduleStore) LoadSchedules(ctx context.Context) ([]*dropin.Schedule, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT facility, activity, start_time, end_time, period_start_date, period_end_date, day_of_week
		FROM schedules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*dropin.Schedule
	for rows.Next() {
		var sch dropin.Schedule
		var start, end sql.NullString
		if err := rows.Scan(&sch.Facility, &sch.Activity, &sch.StartTime, &sch.EndTime, &start, &end, &sch.DayOfWeek); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		sch.PeriodStartDate = stringPtr(start)
		sch.PeriodEndDate = stringPtr(end)
		schedules = append(schedules, &sch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, dropin.Errorf(dropin.ENOTFOUND, "no schedules stored")
	}
	return schedules, nil
}
