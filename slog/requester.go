package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ottawa-dropin/dropin"
)

// Ensure LoggingRequester implements dropin.Requester.
var _ dropin.Requester = (*LoggingRequester)(nil)

// LoggingRequester wraps a Requester with logging.
type LoggingRequester struct {
	next     dropin.Requester
	logger   *slog.Logger
	provider string
}

// NewLoggingRequester creates a new LoggingRequester. provider names the
// model backend in log records.
func NewLoggingRequester(next dropin.Requester, provider string, logger *slog.Logger) *LoggingRequester {
	return &LoggingRequester{next: next, logger: logger, provider: provider}
}

// Request delegates to the wrapped requester and logs prompt and reply sizes.
func (r *LoggingRequester) Request(ctx context.Context, prompt string) (reply string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("llm request",
			"provider", r.provider,
			"prompt_bytes", len(prompt),
			"reply_bytes", len(reply),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Request(ctx, prompt)
}
