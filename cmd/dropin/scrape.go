package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/ottawa-dropin/dropin/crawl"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	begin := time.Now()

	result, err := deps.Scraper.Run(deps.Ctx)
	if result != nil {
		s := result.Summary
		fmt.Fprintln(deps.Stdout, "Scrape summary:")
		fmt.Fprintf(deps.Stdout, "  LLM calls: %d\n", s.LLMCalls)
		fmt.Fprintf(deps.Stdout, "  Facilities with schedules: %d\n", s.FacilitiesWithSchedules)
		fmt.Fprintf(deps.Stdout, "  Entries extracted: %d\n", s.EntriesExtracted)
		fmt.Fprintf(deps.Stdout, "  Valid: %d\n", s.Valid)
		fmt.Fprintf(deps.Stdout, "  Invalid: %d\n", s.Invalid)
	}

	duration := crawl.FormatDuration(time.Since(begin))
	deps.Logger.Info("execution finished", "duration", duration)

	if err != nil {
		if errors.Is(err, deps.Ctx.Err()) {
			fmt.Fprintf(deps.Stderr, "interrupted after %s, partial results saved\n", duration)
		}
		return err
	}
	return nil
}
