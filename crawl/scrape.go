// Package crawl orchestrates a scrape run: facility discovery across the
// paginated facility list, table extraction through the table cache and the
// language model, validation, and persistence of the results.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/ottawa-dropin/dropin"
	"golang.org/x/sync/errgroup"
)

// logURLLen bounds URLs in progress log lines.
const logURLLen = 80

// Scraper runs a full scrape of the facility list.
type Scraper struct {
	Fetcher     dropin.Fetcher
	Parser      dropin.PageParser
	Extractor   *TableExtractor
	Cache       *TableCache
	CacheStore  dropin.CacheStore
	Schedules   dropin.ScheduleStore
	RateLimiter dropin.DomainLimiter
	Frontier    dropin.URLFrontier
	Logger      *slog.Logger

	// ListURL is the first page of the facility list.
	ListURL string
	// BaseURL resolves relative facility links.
	BaseURL string
	// RetryDelays are the waits between fetch attempts. Nil makes one attempt.
	RetryDelays []time.Duration
}

// Result holds the outcome of a scrape run.
type Result struct {
	Summary   dropin.ScrapeSummary
	Schedules []*dropin.Schedule
	Invalid   []dropin.InvalidEntry
}

// facilityResult is the outcome of one facility page.
type facilityResult struct {
	summary   dropin.ScrapeSummary
	schedules []*dropin.Schedule
	invalid   []dropin.InvalidEntry
}

// Run scrapes every facility and saves the schedules, the invalid entries and
// the table cache. Page-level failures are logged and skipped. Cancellation
// stops the run between pages; whatever was gathered is still saved and the
// context error is returned with the partial result.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	logger := s.logger()

	if err := s.Cache.Load(ctx, s.CacheStore); err != nil {
		logger.Error("failed to load table cache", "error", err)
	}

	frontier := s.Frontier
	if frontier == nil {
		frontier = NewFrontier(10_000, 0.001)
	}

	runErr := s.discover(ctx, frontier)

	result := &Result{}
	if runErr == nil {
		for {
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}
			facilityURL, ok := frontier.Pop()
			if !ok {
				break
			}
			logger.Info("processing facility", "url", TruncateURL(facilityURL, logURLLen))

			fr := s.scrapeFacility(ctx, facilityURL)
			result.Summary.Add(fr.summary)
			result.Schedules = append(result.Schedules, fr.schedules...)
			result.Invalid = append(result.Invalid, fr.invalid...)
		}
	}

	s.save(context.WithoutCancel(ctx), result)

	logger.Info("scrape finished",
		"llm_calls", result.Summary.LLMCalls,
		"facilities_with_schedules", result.Summary.FacilitiesWithSchedules,
		"entries_extracted", result.Summary.EntriesExtracted,
		"valid", result.Summary.Valid,
		"invalid", result.Summary.Invalid,
	)

	return result, runErr
}

// discover walks the facility list pages in order and queues facility URLs.
func (s *Scraper) discover(ctx context.Context, frontier dropin.URLFrontier) error {
	logger := s.logger()

	html, ok := s.fetch(ctx, s.ListURL)
	if !ok {
		return ctx.Err()
	}

	pages, err := s.Parser.PageCount(html)
	if err != nil {
		logger.Error("no pagination found for facility list", "error", err)
		return nil
	}
	logger.Info("discovered facility list pages", "pages", pages)

	for page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Info("scraping facility list page", "page", page+1, "of", pages)

		pageURL, err := listPageURL(s.ListURL, page)
		if err != nil {
			return fmt.Errorf("facility list url: %w", err)
		}
		html, ok := s.fetch(ctx, pageURL)
		if !ok {
			continue
		}

		links, err := s.Parser.FacilityLinks(html, s.BaseURL)
		if err != nil {
			logger.Error("failed to parse facility list page", "url", pageURL, "error", err)
			continue
		}
		for _, link := range links {
			if !frontier.Push(link) {
				logger.Debug("duplicate facility link", "url", link)
			}
		}
	}
	return nil
}

// scrapeFacility extracts the schedules of one facility page.
// The page's tables are extracted concurrently; a failing table never affects
// its siblings.
func (s *Scraper) scrapeFacility(ctx context.Context, facilityURL string) facilityResult {
	logger := s.logger()

	html, ok := s.fetch(ctx, facilityURL)
	if !ok {
		return facilityResult{}
	}

	page, err := s.Parser.ParseFacility(html)
	if err != nil {
		logger.Error("error processing facility", "url", facilityURL, "error", err)
		return facilityResult{}
	}
	if !page.HasDropIn || page.Title == "" || len(page.Tables) == 0 {
		return facilityResult{}
	}

	logger.Debug("processing tables", "facility", page.Title, "tables", len(page.Tables))

	results := make([]*TableResult, len(page.Tables))
	var g errgroup.Group
	for i, table := range page.Tables {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("table extraction panicked", "facility", page.Title, "panic", r)
				}
			}()

			res, err := s.Extractor.Extract(ctx, table, page.Title)
			if err != nil {
				logger.Error("LLM processing error for table", "facility", page.Title, "error", err)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	fr := facilityResult{summary: dropin.ScrapeSummary{FacilitiesWithSchedules: 1}}
	for _, res := range results {
		if res == nil {
			continue
		}
		fr.summary.LLMCalls += res.LLMCalls
		fr.summary.EntriesExtracted += len(res.Entries)

		valid, invalid := dropin.Partition(page.Title, res.Entries)
		fr.schedules = append(fr.schedules, valid...)
		fr.invalid = append(fr.invalid, invalid...)
	}
	fr.summary.Valid = len(fr.schedules)
	fr.summary.Invalid = len(fr.invalid)
	return fr
}

// save writes whatever the run produced. Failures are logged.
func (s *Scraper) save(ctx context.Context, result *Result) {
	logger := s.logger()

	if len(result.Schedules) > 0 {
		if err := s.Schedules.SaveSchedules(ctx, result.Schedules); err != nil {
			logger.Error("failed to save schedules", "error", err)
		} else {
			logger.Info("saved schedules", "count", len(result.Schedules))
		}
	}

	if len(result.Invalid) > 0 {
		if err := s.Schedules.SaveInvalid(ctx, result.Invalid); err != nil {
			logger.Error("failed to save invalid schedules", "error", err)
		} else {
			logger.Info("saved invalid schedules", "count", len(result.Invalid))
		}
	}

	written, err := s.Cache.Persist(ctx, s.CacheStore)
	if err != nil {
		logger.Error("failed to save table cache", "error", err)
	} else if written {
		logger.Info("saved table cache")
	}
}

// fetch retrieves a page with pacing and retries.
// The bool result is false when no HTML could be obtained.
func (s *Scraper) fetch(ctx context.Context, pageURL string) (string, bool) {
	logger := s.logger()

	if err := waitURL(ctx, s.RateLimiter, pageURL); err != nil {
		return "", false
	}

	html, err := FetchWithRetry(ctx, pageURL, s.Fetcher.Fetch, logger, s.RetryDelays)
	if err != nil || html == "" {
		logger.Info("no HTML found", "url", TruncateURL(pageURL, logURLLen), "error", err)
		return "", false
	}
	return html, true
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// listPageURL returns the facility list URL for the zero-based page.
func listPageURL(listURL string, page int) (string, error) {
	u, err := url.Parse(listURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
