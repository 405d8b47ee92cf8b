package dropin

import "context"

// Uploader sends validated schedules to the remote API.
type Uploader interface {
	// Upload sends schedules in contiguous batches of at most batchSize.
	// Failures are recorded in the result; Upload never fails as a whole.
	Upload(ctx context.Context, schedules []*Schedule, batchSize int) *UploadResult
}
