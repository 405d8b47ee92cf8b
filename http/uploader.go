package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ottawa-dropin/dropin"
)

// DefaultUploadTimeout bounds a single batch request.
const DefaultUploadTimeout = 60 * time.Second

// Ensure Uploader implements dropin.Uploader at compile time.
var _ dropin.Uploader = (*Uploader)(nil)

// Uploader posts schedules to the schedule API in batches.
type Uploader struct {
	client *resty.Client
	url    string
	logger *slog.Logger
}

// NewUploader creates an Uploader for the API at url authenticating with apiKey.
// A nil logger discards log output.
func NewUploader(url, apiKey string, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	client := resty.New()
	client.SetTimeout(DefaultUploadTimeout)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("x-api-key", apiKey)

	return &Uploader{client: client, url: url, logger: logger}
}

// uploadRequest is the body of one batch request.
type uploadRequest struct {
	Schedules []*dropin.Schedule `json:"schedules"`
}

// uploadResponse is the body the API returns for an accepted batch.
// Errors is either a single message or a list of messages.
type uploadResponse struct {
	Successful int             `json:"successful"`
	Errors     json.RawMessage `json:"errors"`
}

// Upload sends schedules in contiguous batches of at most batchSize.
// Rejected batches are logged and the remaining batches are still sent.
// A transport failure ends the upload; the result keeps what was already
// accounted for.
func (u *Uploader) Upload(ctx context.Context, schedules []*dropin.Schedule, batchSize int) *dropin.UploadResult {
	if batchSize <= 0 {
		batchSize = dropin.DefaultUploadBatchSize
	}

	result := &dropin.UploadResult{Loaded: len(schedules)}
	for start := 0; start < len(schedules); start += batchSize {
		batch := schedules[start:min(start+batchSize, len(schedules))]
		result.Batches++

		res, err := u.client.R().
			SetContext(ctx).
			SetBody(uploadRequest{Schedules: batch}).
			Post(u.url)
		if err != nil {
			u.logger.Error("error while saving schedules", "error", err)
			return result
		}

		switch status := res.StatusCode(); {
		case status == http.StatusOK || status == http.StatusCreated:
			u.accept(res.Body(), result)
		case status >= 500:
			u.logger.Error("server error", "status", status, "body", res.String())
		case status >= 200 && status < 300:
			u.logger.Warn("unexpected success status", "status", status, "body", res.String())
		default:
			u.logger.Error("failed to save schedules", "status", status, "body", res.String())
		}
	}
	return result
}

// accept adds the counts and errors of an accepted batch to result.
func (u *Uploader) accept(body []byte, result *dropin.UploadResult) {
	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		u.logger.Error("malformed upload response", "error", err, "body", string(body))
		return
	}

	result.Saved += resp.Successful
	for _, msg := range responseErrors(resp.Errors) {
		result.AddError(msg)
	}
	u.logger.Info("saved schedules", "count", resp.Successful)
}

// responseErrors flattens the errors field into messages.
func responseErrors(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}

	switch errs := v.(type) {
	case nil:
		return nil
	case string:
		return []string{errs}
	case []any:
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			if s, ok := e.(string); ok {
				msgs = append(msgs, s)
			} else if e != nil {
				msgs = append(msgs, fmt.Sprint(e))
			}
		}
		return msgs
	default:
		return []string{fmt.Sprint(errs)}
	}
}
