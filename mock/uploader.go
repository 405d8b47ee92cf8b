package mock

import (
	"context"

	"github.com/ottawa-dropin/dropin"
)

var _ dropin.Uploader = (*Uploader)(nil)

// Uploader is a mock implementation of dropin.Uploader.
type Uploader struct {
	UploadFn func(ctx context.Context, schedules []*dropin.Schedule, batchSize int) *dropin.UploadResult
}

func (u *Uploader) Upload(ctx context.Context, schedules []*dropin.Schedule, batchSize int) *dropin.UploadResult {
	return u.UploadFn(ctx, schedules, batchSize)
}
