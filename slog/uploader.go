package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ottawa-dropin/dropin"
)

// Ensure LoggingUploader implements dropin.Uploader.
var _ dropin.Uploader = (*LoggingUploader)(nil)

// LoggingUploader wraps an Uploader with logging.
type LoggingUploader struct {
	next   dropin.Uploader
	logger *slog.Logger
}

// NewLoggingUploader creates a new LoggingUploader.
func NewLoggingUploader(next dropin.Uploader, logger *slog.Logger) *LoggingUploader {
	return &LoggingUploader{next: next, logger: logger}
}

// Upload delegates to the wrapped uploader and logs the outcome.
func (u *LoggingUploader) Upload(ctx context.Context, schedules []*dropin.Schedule, batchSize int) (result *dropin.UploadResult) {
	defer func(begin time.Time) {
		u.logger.Info("upload",
			"schedules", len(schedules),
			"batch_size", batchSize,
			"batches", result.Batches,
			"saved", result.Saved,
			"errors", len(result.Errors),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return u.next.Upload(ctx, schedules, batchSize)
}
