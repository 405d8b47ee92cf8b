package dropin

// ScrapeSummary accumulates the counters of a scrape run. Each stage returns
// its own summary and the orchestrator merges them with Add.
type ScrapeSummary struct {
	LLMCalls                int `json:"llmCalls"`
	FacilitiesWithSchedules int `json:"facilitiesWithSchedules"`
	EntriesExtracted        int `json:"entriesExtracted"`
	Valid                   int `json:"valid"`
	Invalid                 int `json:"invalid"`
}

// Add merges other into s.
func (s *ScrapeSummary) Add(other ScrapeSummary) {
	s.LLMCalls += other.LLMCalls
	s.FacilitiesWithSchedules += other.FacilitiesWithSchedules
	s.EntriesExtracted += other.EntriesExtracted
	s.Valid += other.Valid
	s.Invalid += other.Invalid
}

// UploadResult accumulates the outcome of an upload across batches.
type UploadResult struct {
	Loaded  int      `json:"loaded"`
	Batches int      `json:"batches"`
	Saved   int      `json:"saved"`
	Errors  []string `json:"errors"`

	seen map[string]struct{}
}

// AddError records msg unless it was already recorded.
// Errors keep the order in which they were first seen.
func (r *UploadResult) AddError(msg string) {
	if msg == "" {
		return
	}
	if r.seen == nil {
		r.seen = make(map[string]struct{}, len(r.Errors))
		for _, e := range r.Errors {
			r.seen[e] = struct{}{}
		}
	}
	if _, ok := r.seen[msg]; ok {
		return
	}
	r.seen[msg] = struct{}{}
	r.Errors = append(r.Errors, msg)
}
