// Package dropin extracts recurring drop-in activity schedules from the
// HTML tables published on municipal facility pages, using an LLM to turn
// each table into structured records, and uploads the validated records to a
// remote API in batches.
//
// This package contains domain types, interfaces and pure domain logic
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/, goquery/,
// gemini/, sqlite/).
package dropin

// Defaults shared by the scraper and the uploader.
const (
	// DefaultMaxTableLength bounds the cleaned table markup that is hashed
	// and embedded in the extraction prompt.
	DefaultMaxTableLength = 10_000

	// DefaultUploadBatchSize is the maximum number of schedules per upload request.
	DefaultUploadBatchSize = 100
)
