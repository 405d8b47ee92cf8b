package main

import (
	"fmt"

	"github.com/ottawa-dropin/dropin"
)

// Run executes the upload command.
func (c *UploadCmd) Run(deps *Dependencies) error {
	schedules, err := deps.Schedules.LoadSchedules(deps.Ctx)
	if err != nil {
		// A missing or unreadable file uploads nothing rather than failing.
		deps.Logger.Error("failed to load schedules", "error", err)
		schedules = []*dropin.Schedule{}
	}
	deps.Logger.Info("loaded schedules", "count", len(schedules))

	result := deps.Uploader.Upload(deps.Ctx, schedules, c.BatchSize)

	fmt.Fprintln(deps.Stdout, "Upload summary:")
	fmt.Fprintf(deps.Stdout, "  Loaded: %d\n", result.Loaded)
	fmt.Fprintf(deps.Stdout, "  Batches: %d\n", result.Batches)
	fmt.Fprintf(deps.Stdout, "  Saved: %d\n", result.Saved)
	fmt.Fprintf(deps.Stdout, "  Errors: %d\n", len(result.Errors))
	for _, msg := range result.Errors {
		fmt.Fprintf(deps.Stdout, "    - %s\n", msg)
	}
	return nil
}
