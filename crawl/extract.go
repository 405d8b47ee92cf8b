package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/ottawa-dropin/dropin"
	"github.com/ottawa-dropin/dropin/repair"
)

// TableResult holds the outcome of extracting one table.
type TableResult struct {
	Entries  []dropin.RawEntry
	LLMCalls int
	CacheHit bool
}

// TableExtractor turns raw schedule tables into raw entries, consulting the
// table cache before asking the model.
type TableExtractor struct {
	Requester dropin.Requester
	Cache     *TableCache
	Logger    *slog.Logger

	// MaxTableLength bounds the cleaned markup. Defaults to dropin.DefaultMaxTableLength.
	MaxTableLength int

	// RequestTimeout bounds a single model request. Zero means no limit.
	RequestTimeout time.Duration

	// Now returns the current time; used for the year in the prompt.
	Now func() time.Time
}

// Extract returns the raw entries for one table of facility.
// A cache hit never calls the model. A miss makes exactly one request, and
// LLMCalls is 1 whether or not the request succeeds.
func (e *TableExtractor) Extract(ctx context.Context, tableHTML, facility string) (*TableResult, error) {
	cleaned := dropin.CleanTableHTML(tableHTML, e.MaxTableLength)
	fingerprint := dropin.Fingerprint(cleaned)

	if entries, ok := e.Cache.Lookup(fingerprint); ok {
		e.logger().Debug("table cache hit", "facility", facility, "fingerprint", fingerprint)
		return &TableResult{Entries: entries, CacheHit: true}, nil
	}

	prompt := dropin.BuildExtractionPrompt(cleaned, e.now().Year())

	reqCtx := ctx
	if e.RequestTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, e.RequestTimeout)
		defer cancel()
	}

	result := &TableResult{LLMCalls: 1}
	response, err := e.request(reqCtx, prompt)
	if err != nil {
		return result, err
	}

	result.Entries = rawEntries(repair.ExtractWithLogger(response, repair.List, e.logger()))
	if len(result.Entries) > 0 {
		e.Cache.Record(fingerprint, result.Entries)
	}
	return result, nil
}

// request sends prompt to the model. A panicking requester is reported as
// an error so the call is still counted.
func (e *TableExtractor) request(ctx context.Context, prompt string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = dropin.Errorf(dropin.EINTERNAL, "model request panicked: %v", r)
		}
	}()
	return e.Requester.Request(ctx, prompt)
}

func (e *TableExtractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e *TableExtractor) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// rawEntries keeps the JSON objects of a decoded array; other items are dropped.
func rawEntries(v any) []dropin.RawEntry {
	items, _ := v.([]any)
	entries := make([]dropin.RawEntry, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			entries = append(entries, dropin.RawEntry(m))
		}
	}
	return entries
}
